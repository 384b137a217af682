// internal/domain/cart/store_test.go
package cart

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/api"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/infrastructure/storage"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestStore(t *testing.T) (*Store, *storage.MemoryStore) {
	t.Helper()
	mem := storage.NewMemoryStore()
	return NewStore(mem, testLogger()), mem
}

func honey() Snapshot {
	return Snapshot{ProductID: "7", Name: "Miere de salcâm", Price: "40 RON", ShopID: 3, ShopName: "Stupina Ionescu"}
}

func cheese() Snapshot {
	return Snapshot{ProductID: "12", Name: "Brânză de capră", Price: "12,50 lei", ShopID: 5}
}

func TestAddItemUpsertsByProductID(t *testing.T) {
	store, _ := newTestStore(t)

	store.AddItem(honey(), 1)
	store.AddItem(honey(), 2)

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestAddItemClampsQuantityToOne(t *testing.T) {
	store, _ := newTestStore(t)

	store.AddItem(honey(), 0)
	assert.Equal(t, 1, store.ItemQuantity("7"))

	store.AddItem(cheese(), -5)
	assert.Equal(t, 1, store.ItemQuantity("12"))
}

func TestItemsKeepInsertionOrder(t *testing.T) {
	store, _ := newTestStore(t)

	store.AddItem(honey(), 1)
	store.AddItem(cheese(), 1)
	store.AddItem(honey(), 1) // re-add must not move the line

	items := store.Items()
	require.Len(t, items, 2)
	assert.Equal(t, honey().ProductID, items[0].ProductID)
	assert.Equal(t, cheese().ProductID, items[1].ProductID)
}

func TestRemoveItem(t *testing.T) {
	store, _ := newTestStore(t)

	store.AddItem(honey(), 1)
	store.AddItem(cheese(), 1)
	store.RemoveItem("7")

	assert.False(t, store.IsInCart("7"))
	assert.True(t, store.IsInCart("12"))
}

func TestUpdateQuantitySetsAbsoluteValue(t *testing.T) {
	store, _ := newTestStore(t)

	store.AddItem(honey(), 5)
	store.UpdateQuantity("7", 2)

	assert.Equal(t, 2, store.ItemQuantity("7"))
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	store, _ := newTestStore(t)

	store.AddItem(honey(), 3)
	store.UpdateQuantity("7", 0)
	assert.False(t, store.IsInCart("7"))

	store.AddItem(honey(), 3)
	store.UpdateQuantity("7", -1)
	assert.False(t, store.IsInCart("7"))
}

func TestUpdateQuantityUnknownProductIsNoOp(t *testing.T) {
	store, _ := newTestStore(t)

	store.AddItem(honey(), 1)
	store.UpdateQuantity("999", 4)

	assert.Len(t, store.Items(), 1)
	assert.False(t, store.IsInCart("999"))
}

func TestClear(t *testing.T) {
	store, _ := newTestStore(t)

	store.AddItem(honey(), 1)
	store.AddItem(cheese(), 2)
	store.Clear()

	assert.Empty(t, store.Items())
	assert.Equal(t, 0, store.ItemCount())
}

func TestTotalsAcrossMixedPriceFormats(t *testing.T) {
	store, _ := newTestStore(t)

	store.AddItem(honey(), 2)  // 40 RON each
	store.AddItem(cheese(), 1) // 12,50 lei

	totals := store.Totals()
	assert.Equal(t, 2, totals.Lines)
	assert.Equal(t, 3, totals.ItemCount)
	assert.InDelta(t, 92.50, totals.Total, 0.001)
	assert.InDelta(t, 92.50, store.Total(), 0.001)
}

func TestPersistenceRoundTrip(t *testing.T) {
	mem := storage.NewMemoryStore()

	first := NewStore(mem, testLogger())
	first.AddItem(honey(), 2)
	first.AddItem(cheese(), 1)

	second := NewStore(mem, testLogger())
	items := second.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "Miere de salcâm", items[0].Name)
	assert.InDelta(t, 92.50, second.Total(), 0.001)
}

func TestCorruptPersistedCartStartsEmpty(t *testing.T) {
	mem := storage.NewMemoryStore()
	require.NoError(t, mem.Set("cart", "{not json"))

	store := NewStore(mem, testLogger())
	assert.Empty(t, store.Items())

	// The store stays usable and overwrites the bad state.
	store.AddItem(honey(), 1)
	assert.Equal(t, 1, store.ItemCount())
}

func TestSnapshotOfCapturesDisplayState(t *testing.T) {
	store, _ := newTestStore(t)

	product := api.Product{
		ID:       "7",
		Name:     "Miere de salcâm",
		Price:    "40 RON",
		Image:    "https://x/m.jpg",
		ShopID:   3,
		ShopName: "Stupina Ionescu",
	}
	store.AddItem(SnapshotOf(product), 1)

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, product.Name, items[0].Name)
	assert.Equal(t, product.Image, items[0].Image)
	assert.Equal(t, product.ShopName, items[0].ShopName)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"40 RON", 40},
		{"12,50 lei", 12.50},
		{"12.50", 12.50},
		{"100", 100},
		{"gratis", 0},
		{"", 0},
		{"pret: 7,5 lei/kg", 7.5},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParsePrice(tt.input), 0.001)
		})
	}
}
