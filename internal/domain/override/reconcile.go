// internal/domain/override/reconcile.go
package override

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/api"
)

// PlaceholderImage is shown when neither the backend nor the local
// store has an image for a shop.
const PlaceholderImage = "https://via.placeholder.com/600x400?text=Piata+din+Dumbro"

// CatalogAPI is the slice of the backend client the reconciler needs.
type CatalogAPI interface {
	GetShops(ctx context.Context) ([]api.Shop, error)
	GetProductsByShop(ctx context.Context, shopID int64) ([]api.Product, error)
	GetProductByID(ctx context.Context, id api.ID) (*api.Product, error)
}

// MergedShop is the view-ready projection of a shop: backend fields
// with local overrides layered in. Never persisted; recomputed per
// fetch.
type MergedShop struct {
	api.Shop
	Products []api.Product `json:"products"`
	Image    string        `json:"image"`
}

// CatalogProduct is a merged product carrying its shop context, for
// the flattened all-products listing.
type CatalogProduct struct {
	api.Product
	ShopSpecialty string `json:"shopSpecialty,omitempty"`
	ShopLocation  string `json:"shopLocation,omitempty"`
}

// Reconciler merges authoritative backend data with override records.
// The merge is field-level and one-directional: overrides only fill
// fields the backend left absent or empty, except for the
// local-only fields (cover image, products-when-backend-empty).
//
// Every fetch is stamped with a generation; a caller that issued a
// newer fetch discards results from older generations instead of
// applying whatever resolves last.
type Reconciler struct {
	api       CatalogAPI
	overrides *Store
	log       *logrus.Logger
	gen       atomic.Uint64
}

// NewReconciler creates a reconciler over the backend client and the
// local override store.
func NewReconciler(catalog CatalogAPI, overrides *Store, log *logrus.Logger) *Reconciler {
	return &Reconciler{api: catalog, overrides: overrides, log: log}
}

// Generation starts a new fetch generation and returns its stamp.
func (r *Reconciler) Generation() uint64 {
	return r.gen.Add(1)
}

// Current reports whether a generation stamp is still the latest.
// Stale results should be dropped, not rendered.
func (r *Reconciler) Current(gen uint64) bool {
	return r.gen.Load() == gen
}

// Shops fetches every shop and overlays local records onto each.
func (r *Reconciler) Shops(ctx context.Context) ([]MergedShop, uint64, error) {
	gen := r.Generation()

	shops, err := r.api.GetShops(ctx)
	if err != nil {
		return nil, gen, fmt.Errorf("failed to load shops: %w", err)
	}

	merged := make([]MergedShop, 0, len(shops))
	for _, shop := range shops {
		merged = append(merged, r.merge(shop))
	}
	return merged, gen, nil
}

// ShopDetail fetches one shop, pulling its product list from the
// products endpoint before falling back to local records.
func (r *Reconciler) ShopDetail(ctx context.Context, shopID int64) (*MergedShop, uint64, error) {
	gen := r.Generation()

	shops, err := r.api.GetShops(ctx)
	if err != nil {
		return nil, gen, fmt.Errorf("failed to load shops: %w", err)
	}

	for _, shop := range shops {
		if shop.ID != shopID {
			continue
		}

		if len(shop.Products) == 0 {
			if products, err := r.api.GetProductsByShop(ctx, shopID); err == nil {
				shop.Products = products
			} else {
				r.log.WithError(err).WithField("shop_id", shopID).Warn("failed to load shop products")
			}
		}

		m := r.merge(shop)
		return &m, gen, nil
	}
	return nil, gen, fmt.Errorf("shop %d not found", shopID)
}

// AllProducts flattens every shop's merged products with shop context
// attached. A shop whose product fetch fails is skipped; the listing
// degrades instead of failing outright.
func (r *Reconciler) AllProducts(ctx context.Context) ([]CatalogProduct, uint64, error) {
	gen := r.Generation()

	shops, err := r.api.GetShops(ctx)
	if err != nil {
		return nil, gen, fmt.Errorf("failed to load shops: %w", err)
	}

	var catalog []CatalogProduct
	for _, shop := range shops {
		products := shop.Products
		if len(products) == 0 {
			fetched, err := r.api.GetProductsByShop(ctx, shop.ID)
			if err != nil {
				r.log.WithError(err).WithField("shop_id", shop.ID).Warn("skipping shop in catalog")
				continue
			}
			products = fetched
		}
		if len(products) == 0 {
			if local, ok := r.overrides.ShopProducts(shop.ID, shop.Name); ok {
				products = local
			}
		}

		for _, p := range products {
			p.ShopID = shop.ID
			p.ShopName = shop.Name
			catalog = append(catalog, CatalogProduct{
				Product:       p,
				ShopSpecialty: shop.Specialty,
				ShopLocation:  shop.Location,
			})
		}
	}
	return catalog, gen, nil
}

// Product fetches one product by id, normalized by the API boundary.
func (r *Reconciler) Product(ctx context.Context, id api.ID) (*api.Product, uint64, error) {
	gen := r.Generation()

	product, err := r.api.GetProductByID(ctx, id)
	if err != nil {
		return nil, gen, err
	}
	return product, gen, nil
}

// merge overlays a shop's override records onto the backend entity.
// Backend products win when non-empty; the cover image prefers the
// local copy because the backend does not store covers yet.
func (r *Reconciler) merge(shop api.Shop) MergedShop {
	products := shop.Products
	if len(products) == 0 {
		if local, ok := r.overrides.ShopProducts(shop.ID, shop.Name); ok {
			products = local
		}
	}
	if products == nil {
		products = []api.Product{}
	}

	image, ok := r.overrides.ShopImage(shop.ID)
	if !ok {
		image = shop.Image
	}
	if image == "" {
		image = PlaceholderImage
	}

	return MergedShop{Shop: shop, Products: products, Image: image}
}
