// internal/domain/override/record.go
package override

import (
	"fmt"

	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/api"
)

// Storage key namespaces. Id-keyed records are authoritative;
// name-keyed records are a best-effort fallback written when a shop's
// id is not yet known (right after creation, before a reload).
const (
	shopProductsPrefix     = "shop_products_"
	shopProductsNamePrefix = "shop_products_name_"
	shopImagePrefix        = "shop_image_"
	productViewsPrefix     = "product_views_"
	subscriptionPrefix     = "shop_subscription_"
)

func shopProductsKey(shopID int64) string {
	return fmt.Sprintf("%s%d", shopProductsPrefix, shopID)
}

func shopProductsNameKey(title string) string {
	return shopProductsNamePrefix + title
}

func shopImageKey(shopID int64) string {
	return fmt.Sprintf("%s%d", shopImagePrefix, shopID)
}

func productViewsKey(shopID int64, productID api.ID) string {
	return fmt.Sprintf("%s%d_%s", productViewsPrefix, shopID, productID)
}

func subscriptionKey(shopID int64) string {
	return fmt.Sprintf("%s%d", subscriptionPrefix, shopID)
}

// Subscription is the locally kept monthly-box descriptor for a shop.
// The backend does not store subscriptions yet, so this record is the
// only copy.
type Subscription struct {
	Description      string   `json:"description"`
	SelectedProducts []api.ID `json:"selectedProducts"`
	Price            string   `json:"price"`
	IsActive         bool     `json:"isActive"`
}
