// internal/domain/override/store_test.go
package override

import (
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/api"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/config"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/infrastructure/storage"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testImages() config.ImageConfig {
	return config.ImageConfig{ShopCoverMaxWidth: 1200, ProductMaxWidth: 800, JPEGQuality: 80}
}

func newTestStore() (*Store, *storage.MemoryStore) {
	mem := storage.NewMemoryStore()
	return NewStore(mem, testImages(), testLogger()), mem
}

func sampleProducts() []api.Product {
	return []api.Product{
		{ID: "1", Name: "Roșii", Price: "8 lei"},
		{ID: "2", Name: "Castraveți", Price: "6 lei"},
	}
}

func TestShopProductsPrefersIDKey(t *testing.T) {
	store, _ := newTestStore()

	store.SaveShopProducts(4, "Gradina Mariei", sampleProducts())
	store.SaveShopProducts(0, "Gradina Mariei", []api.Product{{ID: "9", Name: "Ceapă"}})

	products, found := store.ShopProducts(4, "Gradina Mariei")
	require.True(t, found)
	require.Len(t, products, 2)
	assert.Equal(t, "Roșii", products[0].Name)
}

func TestShopProductsFallsBackToNameKey(t *testing.T) {
	store, _ := newTestStore()

	// Saved before the backend assigned an id.
	store.SaveShopProducts(0, "Gradina Mariei", sampleProducts())

	products, found := store.ShopProducts(4, "Gradina Mariei")
	require.True(t, found)
	assert.Len(t, products, 2)
}

func TestShopProductsAbsent(t *testing.T) {
	store, _ := newTestStore()

	_, found := store.ShopProducts(4, "Gradina Mariei")
	assert.False(t, found)
}

func TestShopProductsCorruptRecordReadsAsAbsent(t *testing.T) {
	store, mem := newTestStore()
	require.NoError(t, mem.Set("shop_products_4", "{broken"))

	_, found := store.ShopProducts(4, "")
	assert.False(t, found)
}

func TestSaveShopProductsDropsEmptyNames(t *testing.T) {
	store, _ := newTestStore()

	store.SaveShopProducts(4, "", []api.Product{
		{ID: "1", Name: "Roșii"},
		{ID: "2", Name: "   "},
		{ID: "3", Name: ""},
	})

	products, found := store.ShopProducts(4, "")
	require.True(t, found)
	require.Len(t, products, 1)
	assert.Equal(t, "Roșii", products[0].Name)
}

func TestClearShopProducts(t *testing.T) {
	store, _ := newTestStore()

	store.SaveShopProducts(4, "Gradina Mariei", sampleProducts())
	store.SaveShopProducts(0, "Gradina Mariei", sampleProducts())
	store.ClearShopProducts(4, "Gradina Mariei")

	_, found := store.ShopProducts(4, "Gradina Mariei")
	assert.False(t, found)
}

func TestQuotaReclaimRetriesOnce(t *testing.T) {
	mem := storage.NewMemoryStoreWithQuota(2048)
	store := NewStore(mem, testImages(), testLogger())

	// An old bulky record eats nearly the whole quota.
	require.NoError(t, mem.Set("shop_image_99", strings.Repeat("x", 2000)))

	store.SaveShopProducts(4, "", sampleProducts())

	// The write succeeded after reclaiming the bulky namespaces.
	products, found := store.ShopProducts(4, "")
	require.True(t, found)
	assert.Len(t, products, 2)

	_, err := mem.Get("shop_image_99")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestQuotaSecondFailureIsSwallowed(t *testing.T) {
	mem := storage.NewMemoryStoreWithQuota(256)
	store := NewStore(mem, testImages(), testLogger())

	// The quota is held by a record outside the reclaimable
	// namespaces, so the retry fails too.
	require.NoError(t, mem.Set("cart", strings.Repeat("x", 250)))

	store.SaveShopProducts(4, "", sampleProducts())

	_, found := store.ShopProducts(4, "")
	assert.False(t, found)

	// The unrelated record survives.
	_, err := mem.Get("cart")
	assert.NoError(t, err)
}

func TestReclaimKeepsViewCountersAndSubscriptions(t *testing.T) {
	mem := storage.NewMemoryStoreWithQuota(2048)
	store := NewStore(mem, testImages(), testLogger())

	store.IncrementProductViews(4, "1")
	store.SaveSubscription(4, Subscription{Description: "Cutia lunară", Price: "60 lei", IsActive: true})
	require.NoError(t, mem.Set("shop_image_99", strings.Repeat("x", 1950)))

	store.SaveShopProducts(4, "", sampleProducts())

	assert.Equal(t, 1, store.ProductViews(4, "1"))
	_, found := store.Subscription(4)
	assert.True(t, found)
}

func TestIncrementProductViews(t *testing.T) {
	store, _ := newTestStore()

	assert.Equal(t, 1, store.IncrementProductViews(4, "7"))
	assert.Equal(t, 2, store.IncrementProductViews(4, "7"))
	assert.Equal(t, 1, store.IncrementProductViews(4, "8"))
	assert.Equal(t, 2, store.ProductViews(4, "7"))
}

func TestUnparseableViewCounterRestartsAtZero(t *testing.T) {
	store, mem := newTestStore()
	require.NoError(t, mem.Set("product_views_4_7", "many"))

	assert.Equal(t, 0, store.ProductViews(4, "7"))
	assert.Equal(t, 1, store.IncrementProductViews(4, "7"))
}

func TestMostViewedOrdersByViewsAndLimits(t *testing.T) {
	store, _ := newTestStore()
	products := []api.Product{
		{ID: "1", Name: "Roșii"},
		{ID: "2", Name: "Castraveți"},
		{ID: "3", Name: "Ceapă"},
	}

	store.IncrementProductViews(4, "2")
	store.IncrementProductViews(4, "2")
	store.IncrementProductViews(4, "3")

	ranked := store.MostViewed(4, products, 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, api.ID("2"), ranked[0].ID)
	assert.Equal(t, api.ID("3"), ranked[1].ID)
}

func TestMostViewedStableForUnviewedProducts(t *testing.T) {
	store, _ := newTestStore()
	products := sampleProducts()

	ranked := store.MostViewed(4, products, 0)
	require.Len(t, ranked, 2)
	assert.Equal(t, api.ID("1"), ranked[0].ID)
	assert.Equal(t, api.ID("2"), ranked[1].ID)
}

func TestSubscriptionRoundTrip(t *testing.T) {
	store, _ := newTestStore()

	sub := Subscription{
		Description:      "Cutia lunară cu legume",
		SelectedProducts: []api.ID{"1", "3"},
		Price:            "75 lei",
		IsActive:         true,
	}
	store.SaveSubscription(4, sub)

	got, found := store.Subscription(4)
	require.True(t, found)
	assert.Equal(t, sub, *got)
}

func TestSubscriptionAbsent(t *testing.T) {
	store, _ := newTestStore()

	_, found := store.Subscription(4)
	assert.False(t, found)
}

func TestShopImageRoundTrip(t *testing.T) {
	store, _ := newTestStore()

	store.SaveShopImageURL(4, "https://example.com/cover.jpg")

	image, found := store.ShopImage(4)
	require.True(t, found)
	assert.Equal(t, "https://example.com/cover.jpg", image)
}

func TestRemoveShopClearsEveryNamespace(t *testing.T) {
	store, mem := newTestStore()

	store.SaveShopProducts(4, "Gradina Mariei", sampleProducts())
	store.SaveShopImageURL(4, "https://example.com/cover.jpg")
	store.SaveSubscription(4, Subscription{Description: "Cutia", IsActive: true})
	store.IncrementProductViews(4, "1")
	store.IncrementProductViews(4, "2")

	// A different shop's records must survive.
	store.IncrementProductViews(5, "1")

	store.RemoveShop(4, "Gradina Mariei")

	_, found := store.ShopProducts(4, "Gradina Mariei")
	assert.False(t, found)
	_, found = store.ShopImage(4)
	assert.False(t, found)
	_, found = store.Subscription(4)
	assert.False(t, found)
	assert.Equal(t, 0, store.ProductViews(4, "1"))
	assert.Equal(t, 1, store.ProductViews(5, "1"))

	keys, err := mem.Keys("")
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}
