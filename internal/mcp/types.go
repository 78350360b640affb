package mcp

import (
	"time"

	"github.com/rpggio/packlist/internal/domain/activity"
	"github.com/rpggio/packlist/internal/domain/customitem"
	"github.com/rpggio/packlist/internal/domain/packing"
	"github.com/rpggio/packlist/internal/domain/template"
	"github.com/rpggio/packlist/internal/domain/trip"
)

// EmptyParams is the input of tools that take no arguments.
type EmptyParams struct{}

// GenerateListParams describes the trip. Omitted fields take the defaults
// of an untouched form: 3 nights, medium weather, hotel.
type GenerateListParams struct {
	Nights            *int   `json:"nights,omitempty" jsonschema:"number of nights (1-365); out-of-range values are clamped"`
	Weather           string `json:"weather,omitempty" jsonschema:"warm, medium or cold"`
	Accommodation     string `json:"accommodation,omitempty" jsonschema:"hotel, hostel, mountain_cabin or holiday_home"`
	Beach             bool   `json:"beach,omitempty" jsonschema:"beach or swimming activities"`
	Sauna             bool   `json:"sauna,omitempty" jsonschema:"sauna visits"`
	Hiking            bool   `json:"hiking,omitempty" jsonschema:"hiking activities"`
	Climbing          bool   `json:"climbing,omitempty" jsonschema:"climbing activities"`
	Abroad            bool   `json:"abroad,omitempty" jsonschema:"travel to another country"`
	Flight            bool   `json:"flight,omitempty" jsonschema:"travel by plane"`
	HasCamera         bool   `json:"has_camera,omitempty" jsonschema:"bringing a camera"`
	HasWashingMachine bool   `json:"has_washing_machine,omitempty" jsonschema:"a washing machine is available"`
}

// Parameters returns the trip parameters with defaults applied. Nights are
// clamped; enum values are checked by the checklist.
func (p GenerateListParams) Parameters() trip.Parameters {
	params := trip.Default()
	if p.Nights != nil {
		params.Nights = *p.Nights
	}
	if p.Weather != "" {
		params.Weather = trip.Weather(p.Weather)
	}
	if p.Accommodation != "" {
		params.Accommodation = trip.Accommodation(p.Accommodation)
	}
	params.Beach = p.Beach
	params.Sauna = p.Sauna
	params.Hiking = p.Hiking
	params.Climbing = p.Climbing
	params.Abroad = p.Abroad
	params.Flight = p.Flight
	params.HasCamera = p.HasCamera
	params.HasWashingMachine = p.HasWashingMachine
	return params.Clamped()
}

// ChecklistItem is one line of the checklist as shown to a client.
type ChecklistItem struct {
	Key      string           `json:"key" jsonschema:"stable item key used by toggle_item"`
	Label    string           `json:"label" jsonschema:"display text including the quantity"`
	Quantity int              `json:"quantity"`
	Category packing.Category `json:"category"`
	Custom   bool             `json:"custom,omitempty"`
	Packed   bool             `json:"packed"`
}

// ChecklistCategory is a category heading with its items and counts.
type ChecklistCategory struct {
	Category packing.Category `json:"category"`
	Label    string           `json:"label"`
	Packed   int              `json:"packed"`
	Total    int              `json:"total"`
	Complete bool             `json:"complete"`
	Items    []ChecklistItem  `json:"items"`
}

// ChecklistResult is the current checklist.
type ChecklistResult struct {
	Locale     string              `json:"locale"`
	Parameters trip.Parameters     `json:"parameters"`
	Packed     int                 `json:"packed"`
	Total      int                 `json:"total"`
	Percent    int                 `json:"percent"`
	Categories []ChecklistCategory `json:"categories"`
	SaveError  string              `json:"save_error,omitempty" jsonschema:"set while packed state cannot be saved"`
}

type ToggleItemParams struct {
	Key    string `json:"key" jsonschema:"item key from get_checklist"`
	Packed *bool  `json:"packed,omitempty" jsonschema:"packed state to set; omitted flips the current state"`
}

type ToggleItemResult struct {
	Key      string         `json:"key"`
	Packed   bool           `json:"packed"`
	Progress ProgressResult `json:"progress"`
}

// CategoryProgress counts packed items in one category.
type CategoryProgress struct {
	Category packing.Category `json:"category"`
	Label    string           `json:"label"`
	Packed   int              `json:"packed"`
	Total    int              `json:"total"`
	Complete bool             `json:"complete"`
}

type ProgressResult struct {
	Packed     int                `json:"packed"`
	Total      int                `json:"total"`
	Percent    int                `json:"percent"`
	Categories []CategoryProgress `json:"categories"`
	SaveError  string             `json:"save_error,omitempty" jsonschema:"set while packed state cannot be saved"`
}

type SetLocaleParams struct {
	Locale string `json:"locale" jsonschema:"language tag such as en or de-AT"`
}

type SetLocaleResult struct {
	Locale    string   `json:"locale"`
	Supported []string `json:"supported"`
}

// CustomItem is the client view of a custom item.
type CustomItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Category  string `json:"category"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func customItemView(item customitem.Item) CustomItem {
	return CustomItem{
		ID:        item.ID,
		Name:      item.Name,
		Quantity:  item.Quantity,
		Category:  item.Category,
		CreatedAt: formatTime(item.CreatedAt),
		UpdatedAt: formatTime(item.UpdatedAt),
	}
}

type AddCustomItemParams struct {
	Name     string `json:"name" jsonschema:"item name"`
	Quantity int    `json:"quantity,omitempty" jsonschema:"quantity; values below 1 become 1"`
	Category string `json:"category,omitempty" jsonschema:"category; defaults to misc"`
}

type EditCustomItemParams struct {
	ID       string  `json:"id"`
	Name     *string `json:"name,omitempty"`
	Quantity *int    `json:"quantity,omitempty"`
	Category *string `json:"category,omitempty"`
}

type CustomItemResult struct {
	Item CustomItem `json:"item"`
}

type IDParams struct {
	ID string `json:"id"`
}

type DeleteResult struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted" jsonschema:"false when nothing had that id"`
}

type ListCustomItemsResult struct {
	Items []CustomItem `json:"items"`
}

// TemplateSummary is the listing form of a template.
type TemplateSummary struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Nights          int    `json:"nights"`
	CustomItemCount int    `json:"custom_item_count"`
	CreatedAt       string `json:"created_at"`
}

func templateSummaryView(s template.Summary) TemplateSummary {
	return TemplateSummary{
		ID:              s.ID,
		Name:            s.Name,
		Nights:          s.Nights,
		CustomItemCount: s.CustomItemCount,
		CreatedAt:       formatTime(s.CreatedAt),
	}
}

type SaveTemplateParams struct {
	Name string `json:"name" jsonschema:"template name"`
}

type TemplateResult struct {
	Template TemplateSummary `json:"template"`
}

type LoadTemplateResult struct {
	Template  TemplateSummary `json:"template"`
	Checklist ChecklistResult `json:"checklist"`
}

type ListTemplatesResult struct {
	Templates []TemplateSummary `json:"templates"`
}

type ExportChecklistResult struct {
	Format  string `json:"format"`
	Content string `json:"content"`
}

type GetRecentActivityParams struct {
	Limit        int    `json:"limit,omitempty" jsonschema:"maximum entries; defaults to 50"`
	Offset       int    `json:"offset,omitempty"`
	ActivityType string `json:"activity_type,omitempty" jsonschema:"filter by activity type"`
	SubjectID    string `json:"subject_id,omitempty" jsonschema:"filter by custom item or template id"`
}

// ActivityEntry is the client view of an activity log entry.
type ActivityEntry struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	SubjectID string `json:"subject_id,omitempty"`
	Summary   string `json:"summary"`
	Details   string `json:"details,omitempty"`
	CreatedAt string `json:"created_at"`
}

func activityView(e activity.ActivityEntry) ActivityEntry {
	out := ActivityEntry{
		ID:        e.ID,
		Type:      string(e.ActivityType),
		Summary:   e.Summary,
		Details:   e.Details,
		CreatedAt: formatTime(e.CreatedAt),
	}
	if e.SubjectID != nil {
		out.SubjectID = *e.SubjectID
	}
	return out
}

type GetRecentActivityResult struct {
	Entries []ActivityEntry `json:"entries"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
