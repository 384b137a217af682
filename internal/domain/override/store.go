// internal/domain/override/store.go
package override

import (
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/api"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/config"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/infrastructure/storage"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/pkg/imaging"
)

// Store keeps the locally cached supplements to backend data: per-shop
// product lists and cover images the backend does not persist yet,
// best-effort view counters, and subscription descriptors.
//
// The durable storage is shared across every instance on the same
// machine with no locking between them; concurrent writers race
// last-write-wins. Accepted limitation for a single-client deployment.
type Store struct {
	storage storage.Storage
	images  config.ImageConfig
	log     *logrus.Logger
}

// NewStore creates an override store.
func NewStore(st storage.Storage, images config.ImageConfig, log *logrus.Logger) *Store {
	return &Store{storage: st, images: images, log: log}
}

// ShopProducts resolves the locally stored product list for a shop:
// the id-keyed record when present, otherwise the name-keyed
// fallback. Corrupt records read as absent.
func (s *Store) ShopProducts(shopID int64, title string) ([]api.Product, bool) {
	if shopID != 0 {
		if products, ok := s.readProducts(shopProductsKey(shopID)); ok {
			return products, true
		}
	}
	if title != "" {
		if products, ok := s.readProducts(shopProductsNameKey(title)); ok {
			return products, true
		}
	}
	return nil, false
}

// SaveShopProducts persists a shop's product list locally. Rows with
// an empty name are dropped before persisting. When the shop id is
// not yet known the record goes under the name-keyed fallback so it
// survives until the next reload resolves the id.
func (s *Store) SaveShopProducts(shopID int64, title string, products []api.Product) {
	kept := make([]api.Product, 0, len(products))
	for _, p := range products {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		kept = append(kept, p)
	}

	encoded, err := json.Marshal(kept)
	if err != nil {
		s.log.WithError(err).Warn("failed to encode shop products")
		return
	}

	if shopID != 0 {
		s.setReclaiming(shopProductsKey(shopID), string(encoded))
		return
	}
	if title != "" {
		s.setReclaiming(shopProductsNameKey(title), string(encoded))
	}
}

// ClearShopProducts removes a shop's local product records.
func (s *Store) ClearShopProducts(shopID int64, title string) {
	if shopID != 0 {
		s.delete(shopProductsKey(shopID))
	}
	if title != "" {
		s.delete(shopProductsNameKey(title))
	}
}

// ShopImage returns the locally stored cover image (URL or data URI)
// for a shop.
func (s *Store) ShopImage(shopID int64) (string, bool) {
	value, err := s.storage.Get(shopImageKey(shopID))
	if err != nil {
		return "", false
	}
	return value, true
}

// SaveShopImageURL stores a cover image reference as-is.
func (s *Store) SaveShopImageURL(shopID int64, url string) {
	s.setReclaiming(shopImageKey(shopID), url)
}

// SaveShopCover compresses uploaded cover bytes to the shop bound and
// stores them as a data URI. When compression fails the raw bytes are
// stored instead.
func (s *Store) SaveShopCover(shopID int64, data []byte) {
	s.setReclaiming(shopImageKey(shopID), s.imageDataURI(data, s.images.ShopCoverMaxWidth))
}

// CoverImageDataURI compresses uploaded cover bytes to the shop bound
// and returns them as a data URI, falling back to the raw bytes when
// compression fails.
func (s *Store) CoverImageDataURI(data []byte) string {
	return s.imageDataURI(data, s.images.ShopCoverMaxWidth)
}

// ProductImageDataURI compresses uploaded product image bytes to the
// product bound and returns them as a data URI, falling back to the
// raw bytes when compression fails. The result is embedded in product
// rows rather than stored under its own key.
func (s *Store) ProductImageDataURI(data []byte) string {
	return s.imageDataURI(data, s.images.ProductMaxWidth)
}

// IncrementProductViews bumps the best-effort view counter for a
// (shop, product) pair and returns the new count. Absent or
// unparseable counters restart at zero.
func (s *Store) IncrementProductViews(shopID int64, productID api.ID) int {
	key := productViewsKey(shopID, productID)

	views := 0
	if raw, err := s.storage.Get(key); err == nil {
		if parsed, err := strconv.Atoi(raw); err == nil {
			views = parsed
		}
	}
	views++

	if err := s.storage.Set(key, strconv.Itoa(views)); err != nil {
		s.log.WithError(err).Debug("failed to persist view counter")
	}
	return views
}

// ProductViews reads the counter for a (shop, product) pair.
func (s *Store) ProductViews(shopID int64, productID api.ID) int {
	raw, err := s.storage.Get(productViewsKey(shopID, productID))
	if err != nil {
		return 0
	}
	views, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return views
}

// MostViewed returns up to limit products ordered by their view
// counters, highest first. Products with zero views keep their
// original relative order at the tail.
func (s *Store) MostViewed(shopID int64, products []api.Product, limit int) []api.Product {
	ranked := make([]api.Product, len(products))
	copy(ranked, products)

	sort.SliceStable(ranked, func(i, j int) bool {
		return s.ProductViews(shopID, ranked[i].ID) > s.ProductViews(shopID, ranked[j].ID)
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Subscription reads a shop's subscription descriptor.
func (s *Store) Subscription(shopID int64) (*Subscription, bool) {
	raw, err := s.storage.Get(subscriptionKey(shopID))
	if err != nil {
		return nil, false
	}

	var sub Subscription
	if err := json.Unmarshal([]byte(raw), &sub); err != nil {
		s.log.WithError(err).Debug("stored subscription unreadable")
		return nil, false
	}
	return &sub, true
}

// SaveSubscription stores a shop's subscription descriptor.
func (s *Store) SaveSubscription(shopID int64, sub Subscription) {
	encoded, err := json.Marshal(sub)
	if err != nil {
		s.log.WithError(err).Warn("failed to encode subscription")
		return
	}
	s.setReclaiming(subscriptionKey(shopID), string(encoded))
}

// RemoveShop clears every local record belonging to a shop.
func (s *Store) RemoveShop(shopID int64, title string) {
	s.ClearShopProducts(shopID, title)
	s.delete(shopImageKey(shopID))
	s.delete(subscriptionKey(shopID))

	prefix := productViewsPrefix + strconv.FormatInt(shopID, 10) + "_"
	keys, err := s.storage.Keys(prefix)
	if err != nil {
		return
	}
	for _, key := range keys {
		s.delete(key)
	}
}

func (s *Store) readProducts(key string) ([]api.Product, bool) {
	raw, err := s.storage.Get(key)
	if err != nil {
		return nil, false
	}

	var products []api.Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		s.log.WithError(err).WithField("key", key).Debug("stored products unreadable")
		return nil, false
	}
	return products, true
}

// setReclaiming writes a record, and on a full store reclaims the
// bulky namespaces (products and images) and retries once. A second
// failure is swallowed: the backend write already succeeded and is
// the durable record, so the user-visible save must not fail here.
func (s *Store) setReclaiming(key, value string) {
	err := s.storage.Set(key, value)
	if err == nil {
		return
	}
	if !errors.Is(err, storage.ErrQuotaExceeded) {
		s.log.WithError(err).WithField("key", key).Warn("failed to persist override record")
		return
	}

	s.log.WithField("key", key).Info("storage quota exceeded, reclaiming override records")
	s.reclaim()

	if err := s.storage.Set(key, value); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("override record dropped after reclaim")
	}
}

// reclaim deletes every shop products and shop image record. View
// counters and subscriptions are tiny and survive.
func (s *Store) reclaim() {
	for _, prefix := range []string{shopProductsPrefix, shopImagePrefix} {
		keys, err := s.storage.Keys(prefix)
		if err != nil {
			s.log.WithError(err).Warn("failed to list override records for reclaim")
			continue
		}
		for _, key := range keys {
			s.delete(key)
		}
	}
}

func (s *Store) delete(key string) {
	if err := s.storage.Delete(key); err != nil {
		s.log.WithError(err).WithField("key", key).Debug("failed to delete override record")
	}
}

func (s *Store) imageDataURI(data []byte, maxWidth int) string {
	compressed, err := imaging.Compress(data, maxWidth, s.images.JPEGQuality)
	if err != nil {
		s.log.WithError(err).Debug("image compression failed, storing raw bytes")
		compressed = data
	}
	return imaging.DataURI(compressed)
}
