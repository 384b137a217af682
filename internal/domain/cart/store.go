// internal/domain/cart/store.go
package cart

import (
	"encoding/json"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/api"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/infrastructure/storage"
)

// cartKey is the durable storage key holding the serialized cart.
const cartKey = "cart"

// Store is the authoritative cart state for this client: an ordered
// sequence of lines, at most one per product id, persisted
// synchronously after every mutation so a reload always sees the last
// completed operation.
type Store struct {
	mu      sync.Mutex
	lines   []Line
	storage storage.Storage
	log     *logrus.Logger
}

// NewStore creates a cart store and rehydrates it from storage.
// Missing or corrupt persisted state starts the cart empty.
func NewStore(st storage.Storage, log *logrus.Logger) *Store {
	s := &Store{storage: st, log: log}

	raw, err := st.Get(cartKey)
	if err != nil {
		return s
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		log.WithError(err).Warn("persisted cart unreadable, starting empty")
		return s
	}
	s.lines = lines
	return s
}

// AddItem inserts a line for the product or, when one already exists,
// increments its quantity. Quantities below 1 are clamped to 1.
func (s *Store) AddItem(product Snapshot, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ProductID == product.ProductID {
			s.lines[i].Quantity += quantity
			s.persist()
			return
		}
	}

	s.lines = append(s.lines, Line{Snapshot: product, Quantity: quantity})
	s.persist()
}

// RemoveItem deletes the line with the given product id, if present.
func (s *Store) RemoveItem(productID api.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(productID)
	s.persist()
}

// UpdateQuantity sets a line's quantity to an absolute value. A value
// of zero or less removes the line. Updating a product that is not in
// the cart is a no-op: AddItem is the only creation path.
func (s *Store) UpdateQuantity(productID api.ID, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.removeLocked(productID)
		s.persist()
		return
	}

	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines[i].Quantity = quantity
			s.persist()
			return
		}
	}
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	s.persist()
}

// Items returns the cart lines in insertion order.
func (s *Store) Items() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]Line, len(s.lines))
	copy(items, s.lines)
	return items
}

// ItemCount returns the sum of all quantities.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

// Total sums parsed price × quantity over all lines. Unparseable
// prices count as zero.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0.0
	for _, line := range s.lines {
		total += ParsePrice(line.Price) * float64(line.Quantity)
	}
	return total
}

// Totals returns the display summary in one call.
func (s *Store) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := Totals{Lines: len(s.lines)}
	for _, line := range s.lines {
		t.ItemCount += line.Quantity
		t.Total += ParsePrice(line.Price) * float64(line.Quantity)
	}
	return t
}

// IsInCart reports whether a line exists for the product.
func (s *Store) IsInCart(productID api.ID) bool {
	return s.ItemQuantity(productID) > 0
}

// ItemQuantity returns the quantity of the product's line, or zero.
func (s *Store) ItemQuantity(productID api.ID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, line := range s.lines {
		if line.ProductID == productID {
			return line.Quantity
		}
	}
	return 0
}

// ParsePrice extracts a numeric amount from a display price like
// "40 RON" or "12,50 lei": strip everything but digits and
// separators, normalize decimal comma to dot, default to zero when
// nothing parseable remains.
func ParsePrice(price string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			return r
		}
		return -1
	}, price)
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return value
}

func (s *Store) removeLocked(productID api.ID) {
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return
		}
	}
}

// persist writes the full cart to durable storage. Failures are
// logged and swallowed: the in-memory cart stays usable and the next
// successful mutation rewrites the whole state anyway.
func (s *Store) persist() {
	encoded, err := json.Marshal(s.lines)
	if err != nil {
		s.log.WithError(err).Warn("failed to encode cart")
		return
	}
	if err := s.storage.Set(cartKey, string(encoded)); err != nil {
		s.log.WithError(err).Warn("failed to persist cart")
	}
}
