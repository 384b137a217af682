// internal/domain/cart/entity.go
package cart

import "github.com/AlexandruGrigore19/piata-dumbro-client/internal/api"

// Snapshot is the denormalized product state captured when a product
// enters the cart. Prices are display strings ("12,50 lei"); the cart
// never sees backend price updates after add time.
type Snapshot struct {
	ProductID api.ID `json:"id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Image     string `json:"image,omitempty"`
	ShopID    int64  `json:"shopId,omitempty"`
	ShopName  string `json:"shopName,omitempty"`
}

// Line is one cart entry: a product snapshot plus its quantity.
// Quantity is always >= 1 in a live line; zero or negative means the
// line is removed instead.
type Line struct {
	Snapshot
	Quantity int `json:"quantity"`
}

// Totals summarizes the cart for display.
type Totals struct {
	Lines     int     `json:"lines"`
	ItemCount int     `json:"itemCount"`
	Total     float64 `json:"total"`
}

// SnapshotOf builds a cart snapshot from a canonical product.
func SnapshotOf(p api.Product) Snapshot {
	return Snapshot{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
		ShopID:    p.ShopID,
		ShopName:  p.ShopName,
	}
}
