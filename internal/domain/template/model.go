package template

import (
	"maps"
	"time"

	"github.com/rpggio/packlist/internal/domain/customitem"
	"github.com/rpggio/packlist/internal/domain/trip"
)

// Template is a named preset: trip parameters, the custom items and the
// completion state at the time it was saved.
type Template struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	FormData       trip.Parameters   `json:"formData"`
	CustomItems    []customitem.Item `json:"customItems"`
	ChecklistState map[string]bool   `json:"checklistState"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// Summary is the listing form of a template.
type Summary struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Nights          int       `json:"nights"`
	CustomItemCount int       `json:"custom_item_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// Clone returns a deep copy of t.
func (t Template) Clone() Template {
	out := t
	out.CustomItems = customitem.Clone(t.CustomItems)
	out.ChecklistState = maps.Clone(t.ChecklistState)
	return out
}

// Summarize returns the listing form of t.
func (t Template) Summarize() Summary {
	return Summary{
		ID:              t.ID,
		Name:            t.Name,
		Nights:          t.FormData.Nights,
		CustomItemCount: len(t.CustomItems),
		CreatedAt:       t.CreatedAt,
	}
}
