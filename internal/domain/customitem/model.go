package customitem

import "time"

// DefaultCategory is used when an item is added without a category.
const DefaultCategory = "misc"

// Item is a user-authored packing item that is appended to every generated list.
type Item struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Update is a partial edit of an item. Nil fields are left unchanged.
// The identifier and timestamps are not editable.
type Update struct {
	Name     *string `json:"name,omitempty"`
	Quantity *int    `json:"quantity,omitempty"`
	Category *string `json:"category,omitempty"`
}

// Clone returns a copy of items that shares no backing array with the input.
func Clone(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
