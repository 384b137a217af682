// internal/domain/shop/editor.go
package shop

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/api"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/domain/override"
)

// ErrNotOwner is returned when a user who does not own the shop tries
// to start editing it.
var ErrNotOwner = errors.New("only the shop owner can edit this shop")

// ErrInvalidTransition is returned when an operation is called in the
// wrong state, e.g. saving while still viewing.
var ErrInvalidTransition = errors.New("operation not allowed in current state")

// State is the editing lifecycle of one shop card:
// Viewing → Editing → Saving → Viewing, with a failed save returning
// to Editing and Cancel discarding the draft.
type State int

const (
	StateViewing State = iota
	StateEditing
	StateSaving
)

func (s State) String() string {
	switch s {
	case StateViewing:
		return "viewing"
	case StateEditing:
		return "editing"
	case StateSaving:
		return "saving"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Writer is the slice of the backend client the editor needs.
type Writer interface {
	UpdateShop(ctx context.Context, shopID int64, req api.ShopRequest) error
}

// Draft holds the in-progress edit. It only becomes visible to other
// components once Save succeeds.
type Draft struct {
	Name        string
	Description string
	Specialty   string
	Location    string
	Image       string
	Products    []api.Product
}

// Editor runs one owner's editing session over one shop. Not safe for
// concurrent use; the view layer drives it from a single event loop.
type Editor struct {
	shop      api.Shop
	user      *api.User
	backend   Writer
	overrides *override.Store
	log       *logrus.Logger

	state   State
	draft   Draft
	saveErr error
}

// NewEditor creates an editing session in the Viewing state.
func NewEditor(s api.Shop, user *api.User, backend Writer, overrides *override.Store, log *logrus.Logger) *Editor {
	return &Editor{
		shop:      s,
		user:      user,
		backend:   backend,
		overrides: overrides,
		log:       log,
		state:     StateViewing,
	}
}

// State returns the current lifecycle state.
func (e *Editor) State() State { return e.state }

// Err returns the error from the last failed save, if any.
func (e *Editor) Err() error { return e.saveErr }

// Draft returns the working copy. Only meaningful while editing.
func (e *Editor) Draft() Draft { return e.draft }

// IsOwner reports whether the session user owns the shop. Unresolved
// owner ids (zero) never match.
func (e *Editor) IsOwner() bool {
	return e.user != nil && e.shop.OwnerID != 0 && e.user.ID == e.shop.OwnerID
}

// BeginEdit transitions Viewing → Editing, seeding the draft from the
// backend entity overlaid with local records. Non-owners are refused
// regardless of how the call was reached.
func (e *Editor) BeginEdit() error {
	if !e.IsOwner() {
		return ErrNotOwner
	}
	if e.state != StateViewing {
		return fmt.Errorf("%w: begin edit from %s", ErrInvalidTransition, e.state)
	}

	products := e.shop.Products
	if len(products) == 0 {
		if local, ok := e.overrides.ShopProducts(e.shop.ID, e.shop.Name); ok {
			products = local
		}
	}
	image := e.shop.Image
	if local, ok := e.overrides.ShopImage(e.shop.ID); ok {
		image = local
	}

	e.draft = Draft{
		Name:        e.shop.Name,
		Description: e.shop.Description,
		Specialty:   e.shop.Specialty,
		Location:    e.shop.Location,
		Image:       image,
		Products:    append([]api.Product(nil), products...),
	}
	e.state = StateEditing
	return nil
}

// SetDetails updates the draft's shop-level fields.
func (e *Editor) SetDetails(name, description, specialty, location string) error {
	if e.state != StateEditing {
		return fmt.Errorf("%w: set details from %s", ErrInvalidTransition, e.state)
	}
	e.draft.Name = name
	e.draft.Description = description
	e.draft.Specialty = specialty
	e.draft.Location = location
	return nil
}

// SetImage replaces the draft cover with an already-encoded reference,
// either a URL or a data URI.
func (e *Editor) SetImage(image string) error {
	if e.state != StateEditing {
		return fmt.Errorf("%w: set image from %s", ErrInvalidTransition, e.state)
	}
	e.draft.Image = image
	return nil
}

// AddProductRow appends an empty product row and returns its id. Rows
// get client-side ids so image uploads and removals can target them
// before the backend has assigned anything.
func (e *Editor) AddProductRow() (api.ID, error) {
	if e.state != StateEditing {
		return "", fmt.Errorf("%w: add product from %s", ErrInvalidTransition, e.state)
	}
	id := api.ID(uuid.NewString())
	e.draft.Products = append(e.draft.Products, api.Product{ID: id})
	return id, nil
}

// UpdateProductRow rewrites the named fields of a draft row.
func (e *Editor) UpdateProductRow(id api.ID, name, description, price string) error {
	if e.state != StateEditing {
		return fmt.Errorf("%w: update product from %s", ErrInvalidTransition, e.state)
	}
	for i := range e.draft.Products {
		if e.draft.Products[i].ID == id {
			e.draft.Products[i].Name = name
			e.draft.Products[i].Description = description
			e.draft.Products[i].Price = price
			return nil
		}
	}
	return fmt.Errorf("product row %s not found", id)
}

// ReplaceProducts swaps the whole draft product list, for callers that
// edit the list as one document rather than row by row. Rows without
// an id get one assigned.
func (e *Editor) ReplaceProducts(products []api.Product) error {
	if e.state != StateEditing {
		return fmt.Errorf("%w: replace products from %s", ErrInvalidTransition, e.state)
	}
	rows := append([]api.Product(nil), products...)
	for i := range rows {
		if rows[i].ID == "" {
			rows[i].ID = api.ID(uuid.NewString())
		}
	}
	e.draft.Products = rows
	return nil
}

// RemoveProductRow deletes a draft row.
func (e *Editor) RemoveProductRow(id api.ID) error {
	if e.state != StateEditing {
		return fmt.Errorf("%w: remove product from %s", ErrInvalidTransition, e.state)
	}
	for i := range e.draft.Products {
		if e.draft.Products[i].ID == id {
			e.draft.Products = append(e.draft.Products[:i], e.draft.Products[i+1:]...)
			return nil
		}
	}
	return nil
}

// AttachCoverImage sets the draft cover from uploaded bytes,
// compressed to the shop bound.
func (e *Editor) AttachCoverImage(data []byte) error {
	if e.state != StateEditing {
		return fmt.Errorf("%w: attach image from %s", ErrInvalidTransition, e.state)
	}
	e.draft.Image = e.overrides.CoverImageDataURI(data)
	return nil
}

// AttachProductImage sets a draft row's image from uploaded bytes,
// compressed to the product bound.
func (e *Editor) AttachProductImage(id api.ID, data []byte) error {
	if e.state != StateEditing {
		return fmt.Errorf("%w: attach image from %s", ErrInvalidTransition, e.state)
	}
	for i := range e.draft.Products {
		if e.draft.Products[i].ID == id {
			e.draft.Products[i].Image = e.overrides.ProductImageDataURI(data)
			return nil
		}
	}
	return fmt.Errorf("product row %s not found", id)
}

// Cancel discards the draft and returns to Viewing.
func (e *Editor) Cancel() {
	if e.state == StateEditing {
		e.draft = Draft{}
		e.saveErr = nil
		e.state = StateViewing
	}
}

// Save validates the draft, submits the canonical fields to the
// backend, then persists the product list and cover locally. A
// backend failure returns the session to Editing with the error
// retained; the local persistence path never fails the save.
func (e *Editor) Save(ctx context.Context) error {
	if e.state != StateEditing {
		return fmt.Errorf("%w: save from %s", ErrInvalidTransition, e.state)
	}
	e.state = StateSaving

	// Empty-name rows are silently dropped before anything persists.
	rows := make([]api.Product, 0, len(e.draft.Products))
	for _, p := range e.draft.Products {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		rows = append(rows, p)
	}
	e.draft.Products = rows

	req := api.ShopRequest{
		Name:        e.draft.Name,
		Description: e.draft.Description,
		Specialty:   e.draft.Specialty,
		Location:    e.draft.Location,
		ImageURL:    e.draft.Image,
	}
	if err := e.backend.UpdateShop(ctx, e.shop.ID, req); err != nil {
		e.saveErr = err
		e.state = StateEditing
		return err
	}

	// Backend write succeeded; it is the durable record. Local
	// persistence is best-effort from here on.
	e.overrides.SaveShopProducts(e.shop.ID, e.draft.Name, rows)
	if e.shop.ID != 0 && e.draft.Image != "" {
		e.overrides.SaveShopImageURL(e.shop.ID, e.draft.Image)
	}

	e.shop.Name = e.draft.Name
	e.shop.Description = e.draft.Description
	e.shop.Specialty = e.draft.Specialty
	e.shop.Location = e.draft.Location
	e.shop.Image = e.draft.Image
	e.shop.Products = rows

	e.log.WithField("shop_id", e.shop.ID).Info("shop saved")
	e.saveErr = nil
	e.state = StateViewing
	return nil
}

// Shop returns the session's current view of the shop, including any
// saved edits.
func (e *Editor) Shop() api.Shop { return e.shop }
