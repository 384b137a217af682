// internal/api/types.go
package api

import (
	"encoding/json"
	"strings"
)

// ID is an opaque product identifier. The backend emits both JSON
// numbers and strings depending on endpoint; both decode into the
// same canonical string form.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// flexString decodes a JSON string or number into a string, for
// fields like price that the backend serves inconsistently.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var id ID
	if err := id.UnmarshalJSON(data); err != nil {
		return err
	}
	*f = flexString(id)
	return nil
}

// Shop is the canonical shop entity. All backend field-name variants
// (imageUrl/image_url/image/coverImage, name/title, user_id/userId/
// user.id) are folded into this shape at the client boundary so no
// other package branches on them.
type Shop struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Specialty   string    `json:"specialty,omitempty"`
	Location    string    `json:"location,omitempty"`
	Image       string    `json:"image,omitempty"`
	OwnerID     int64     `json:"ownerId,omitempty"`
	OwnerName   string    `json:"ownerName,omitempty"`
	OwnerEmail  string    `json:"ownerEmail,omitempty"`
	OwnerPhone  string    `json:"ownerPhone,omitempty"`
	Products    []Product `json:"products,omitempty"`
}

type rawShop struct {
	ID            json.Number `json:"id"`
	Name          string      `json:"name"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Specialty     string      `json:"specialty"`
	Location      string      `json:"location"`
	Image         string      `json:"image"`
	ImageURL      string      `json:"imageUrl"`
	ImageURLSnake string      `json:"image_url"`
	CoverImage    string      `json:"coverImage"`
	UserID        json.Number `json:"user_id"`
	UserIDCamel   json.Number `json:"userId"`
	OwnerID       json.Number `json:"owner_id"`
	User          *struct {
		ID json.Number `json:"id"`
	} `json:"user"`
	OwnerName  string    `json:"owner_name"`
	OwnerEmail string    `json:"owner_email"`
	OwnerPhone string    `json:"owner_phone"`
	Products   []Product `json:"products"`
}

// UnmarshalJSON normalizes backend variants into the canonical shape.
func (s *Shop) UnmarshalJSON(data []byte) error {
	var raw rawShop
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	ownerID := numberToInt64(raw.UserID, raw.UserIDCamel, raw.OwnerID)
	if ownerID == 0 && raw.User != nil {
		ownerID = numberToInt64(raw.User.ID)
	}

	*s = Shop{
		ID:          numberToInt64(raw.ID),
		Name:        firstNonEmpty(raw.Name, raw.Title),
		Description: raw.Description,
		Specialty:   raw.Specialty,
		Location:    raw.Location,
		Image:       firstNonEmpty(raw.ImageURL, raw.ImageURLSnake, raw.Image, raw.CoverImage),
		OwnerID:     ownerID,
		OwnerName:   raw.OwnerName,
		OwnerEmail:  raw.OwnerEmail,
		OwnerPhone:  raw.OwnerPhone,
		Products:    raw.Products,
	}
	return nil
}

// Product is the canonical product entity.
type Product struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price,omitempty"`
	Image       string `json:"image,omitempty"`
	Category    string `json:"category,omitempty"`
	Unit        string `json:"unit,omitempty"`
	Badge       string `json:"badge,omitempty"`
	ShopID      int64  `json:"shopId,omitempty"`
	ShopName    string `json:"shopName,omitempty"`
	OwnerID     int64  `json:"ownerId,omitempty"`
}

type rawProduct struct {
	ID            ID          `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	Price         flexString  `json:"price"`
	Image         string      `json:"image"`
	ImageURL      string      `json:"imageUrl"`
	ImageURLSnake string      `json:"image_url"`
	Category      string      `json:"category"`
	Unit          string      `json:"unit"`
	Badge         string      `json:"badge"`
	ShopID        json.Number `json:"shop_id"`
	ShopIDCamel   json.Number `json:"shopId"`
	ShopName      string      `json:"shop_name"`
	ShopNameCamel string      `json:"shopName"`
	OwnerID       json.Number `json:"owner_id"`
	OwnerIDCamel  json.Number `json:"ownerId"`
}

// UnmarshalJSON normalizes backend variants into the canonical shape.
func (p *Product) UnmarshalJSON(data []byte) error {
	var raw rawProduct
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = Product{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		Price:       string(raw.Price),
		Image:       firstNonEmpty(raw.ImageURL, raw.ImageURLSnake, raw.Image),
		Category:    raw.Category,
		Unit:        raw.Unit,
		Badge:       raw.Badge,
		ShopID:      numberToInt64(raw.ShopID, raw.ShopIDCamel),
		ShopName:    firstNonEmpty(raw.ShopName, raw.ShopNameCamel),
		OwnerID:     numberToInt64(raw.OwnerID, raw.OwnerIDCamel),
	}
	return nil
}

// Producer holds the producer profile attached to a producer user.
type Producer struct {
	ID          int64  `json:"id"`
	Location    string `json:"location,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Description string `json:"description,omitempty"`
	Specialty   string `json:"specialty,omitempty"`
}

type rawProducer struct {
	ID            json.Number `json:"id"`
	Location      string      `json:"location"`
	Image         string      `json:"image"`
	ImageURL      string      `json:"imageUrl"`
	ImageURLSnake string      `json:"image_url"`
	Description   string      `json:"description"`
	Specialty     string      `json:"specialty"`
}

func (p *Producer) UnmarshalJSON(data []byte) error {
	var raw rawProducer
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Producer{
		ID:          numberToInt64(raw.ID),
		Location:    raw.Location,
		ImageURL:    firstNonEmpty(raw.ImageURL, raw.ImageURLSnake, raw.Image),
		Description: raw.Description,
		Specialty:   raw.Specialty,
	}
	return nil
}

// User is the canonical authenticated user.
type User struct {
	ID       int64     `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"fullName,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	Role     string    `json:"role,omitempty"`
	ImageURL string    `json:"imageUrl,omitempty"`
	Producer *Producer `json:"producer,omitempty"`
}

type rawUser struct {
	ID            json.Number `json:"id"`
	Email         string      `json:"email"`
	FullName      string      `json:"fullName"`
	FullNameSnake string      `json:"full_name"`
	Phone         string      `json:"phone"`
	Role          string      `json:"role"`
	ImageURL      string      `json:"imageUrl"`
	ImageURLSnake string      `json:"image_url"`
	Producer      *Producer   `json:"producer"`
}

func (u *User) UnmarshalJSON(data []byte) error {
	var raw rawUser
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*u = User{
		ID:       numberToInt64(raw.ID),
		Email:    raw.Email,
		FullName: firstNonEmpty(raw.FullName, raw.FullNameSnake),
		Phone:    raw.Phone,
		Role:     raw.Role,
		ImageURL: firstNonEmpty(raw.ImageURL, raw.ImageURLSnake),
		Producer: raw.Producer,
	}
	return nil
}

// IsProducer reports whether the user has the producer role.
func (u *User) IsProducer() bool {
	return u != nil && u.Role == "producer"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func numberToInt64(numbers ...json.Number) int64 {
	for _, n := range numbers {
		if n == "" {
			continue
		}
		if v, err := n.Int64(); err == nil && v != 0 {
			return v
		}
	}
	return 0
}
