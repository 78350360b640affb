package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rpggio/packlist/internal/domain/activity"
	"github.com/rpggio/packlist/internal/domain/checklist"
	"github.com/rpggio/packlist/internal/domain/customitem"
	"github.com/rpggio/packlist/internal/domain/packing"
	"github.com/rpggio/packlist/internal/domain/template"
	"github.com/rpggio/packlist/internal/domain/trip"
	"github.com/rpggio/packlist/internal/render"
)

// ChecklistService defines checklist operations needed by MCP.
type ChecklistService interface {
	Regenerate(ctx context.Context, params trip.Parameters) (checklist.View, error)
	View() (checklist.View, error)
	Toggle(ctx context.Context, key string, packed bool) error
	Progress() checklist.Progress
	Completion() map[string]bool
	SetLocale(ctx context.Context, locale string) error
	Locale() string
	LastSaveError() error
}

// CustomItemService defines custom item operations needed by MCP.
type CustomItemService interface {
	Add(ctx context.Context, req customitem.AddRequest) (*customitem.Item, error)
	Edit(ctx context.Context, id string, update customitem.Update) (*customitem.Item, error)
	Delete(ctx context.Context, id string) error
	Get(id string) (*customitem.Item, error)
	List() []customitem.Item
}

// TemplateService defines template operations needed by MCP.
type TemplateService interface {
	Save(ctx context.Context, name string) (*template.Template, error)
	Load(ctx context.Context, id string) (*template.Template, error)
	Delete(ctx context.Context, id string) error
	Get(id string) (*template.Template, error)
	List() []template.Template
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Catalog resolves display text and supported locales.
type Catalog interface {
	render.Localizer
	Match(requested string) string
	Locales() []string
}

// Services contains all domain services needed by MCP.
type Services struct {
	Checklist   ChecklistService
	CustomItems CustomItemService
	Templates   TemplateService
	Activity    ActivityService
	Catalog     Catalog
}

// Handler implements the packing list tools. Calls are serialized: the SDK
// may dispatch requests on several goroutines, but the checklist has a
// single writer.
type Handler struct {
	checklist ChecklistService
	items     CustomItemService
	templates TemplateService
	activity  ActivityService
	catalog   Catalog
	logger    *slog.Logger
	now       func() time.Time

	mu    sync.Mutex
	tools []tool
	index map[string]tool
}

// NewHandler creates a new handler.
func NewHandler(services Services, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &Handler{
		checklist: services.Checklist,
		items:     services.CustomItems,
		templates: services.Templates,
		activity:  services.Activity,
		catalog:   services.Catalog,
		logger:    logger,
		now:       time.Now,
	}
	h.tools = h.buildTools()
	h.index = make(map[string]tool, len(h.tools))
	for _, t := range h.tools {
		h.index[t.name] = t
	}
	return h
}

// Handle dispatches a JSON-RPC method to the tool of the same name.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	t, ok := h.index[method]
	if !ok {
		return nil, &APIError{Code: CodeMethodNotFound, Message: fmt.Sprintf("unknown method %q", method)}
	}
	return t.call(ctx, params)
}

// Methods returns the names of all tools in registration order.
func (h *Handler) Methods() []string {
	out := make([]string, 0, len(h.tools))
	for _, t := range h.tools {
		out = append(out, t.name)
	}
	return out
}

// GenerateList derives a new packing list from the trip parameters.
func (h *Handler) GenerateList(ctx context.Context, params GenerateListParams) (ChecklistResult, error) {
	view, err := h.checklist.Regenerate(ctx, params.Parameters())
	if err != nil {
		return ChecklistResult{}, err
	}
	return h.checklistResult(view), nil
}

// GetChecklist returns the current list with completion state.
func (h *Handler) GetChecklist(_ context.Context, _ EmptyParams) (ChecklistResult, error) {
	view, err := h.checklist.View()
	if err != nil {
		return ChecklistResult{}, err
	}
	return h.checklistResult(view), nil
}

// ToggleItem marks an item packed or unpacked.
func (h *Handler) ToggleItem(ctx context.Context, params ToggleItemParams) (ToggleItemResult, error) {
	packed := !h.checklist.Completion()[params.Key]
	if params.Packed != nil {
		packed = *params.Packed
	}
	if err := h.checklist.Toggle(ctx, params.Key, packed); err != nil {
		return ToggleItemResult{}, err
	}
	return ToggleItemResult{Key: params.Key, Packed: packed, Progress: h.progressResult()}, nil
}

// GetProgress returns packed counts overall and per category.
func (h *Handler) GetProgress(_ context.Context, _ EmptyParams) (ProgressResult, error) {
	if _, err := h.checklist.View(); err != nil {
		return ProgressResult{}, err
	}
	return h.progressResult(), nil
}

// SetLocale switches the display language to the closest supported locale.
func (h *Handler) SetLocale(ctx context.Context, params SetLocaleParams) (SetLocaleResult, error) {
	locale := h.catalog.Match(params.Locale)
	if err := h.checklist.SetLocale(ctx, locale); err != nil {
		return SetLocaleResult{}, err
	}
	return SetLocaleResult{Locale: locale, Supported: h.catalog.Locales()}, nil
}

// AddCustomItem adds a user-authored item to every generated list.
func (h *Handler) AddCustomItem(ctx context.Context, params AddCustomItemParams) (CustomItemResult, error) {
	item, err := h.items.Add(ctx, customitem.AddRequest{
		Name:     params.Name,
		Quantity: params.Quantity,
		Category: params.Category,
	})
	if err != nil {
		return CustomItemResult{}, err
	}
	return CustomItemResult{Item: customItemView(*item)}, nil
}

// EditCustomItem applies a partial update to a custom item.
func (h *Handler) EditCustomItem(ctx context.Context, params EditCustomItemParams) (CustomItemResult, error) {
	item, err := h.items.Edit(ctx, params.ID, customitem.Update{
		Name:     params.Name,
		Quantity: params.Quantity,
		Category: params.Category,
	})
	if err != nil {
		return CustomItemResult{}, err
	}
	return CustomItemResult{Item: customItemView(*item)}, nil
}

// DeleteCustomItem removes a custom item. Unknown ids report deleted=false.
func (h *Handler) DeleteCustomItem(ctx context.Context, params IDParams) (DeleteResult, error) {
	_, err := h.items.Get(params.ID)
	existed := err == nil
	if err := h.items.Delete(ctx, params.ID); err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{ID: params.ID, Deleted: existed}, nil
}

// ListCustomItems returns all custom items in creation order.
func (h *Handler) ListCustomItems(_ context.Context, _ EmptyParams) (ListCustomItemsResult, error) {
	items := h.items.List()
	out := make([]CustomItem, 0, len(items))
	for _, item := range items {
		out = append(out, customItemView(item))
	}
	return ListCustomItemsResult{Items: out}, nil
}

// SaveTemplate stores the current trip, custom items and packed state under a name.
func (h *Handler) SaveTemplate(ctx context.Context, params SaveTemplateParams) (TemplateResult, error) {
	tmpl, err := h.templates.Save(ctx, params.Name)
	if err != nil {
		return TemplateResult{}, err
	}
	return TemplateResult{Template: templateSummaryView(tmpl.Summarize())}, nil
}

// LoadTemplate applies a template and returns the resulting checklist.
func (h *Handler) LoadTemplate(ctx context.Context, params IDParams) (LoadTemplateResult, error) {
	tmpl, err := h.templates.Load(ctx, params.ID)
	if err != nil {
		return LoadTemplateResult{}, err
	}
	view, err := h.checklist.View()
	if err != nil {
		return LoadTemplateResult{}, err
	}
	return LoadTemplateResult{
		Template:  templateSummaryView(tmpl.Summarize()),
		Checklist: h.checklistResult(view),
	}, nil
}

// DeleteTemplate removes a template. Unknown ids report deleted=false.
func (h *Handler) DeleteTemplate(ctx context.Context, params IDParams) (DeleteResult, error) {
	_, err := h.templates.Get(params.ID)
	existed := err == nil
	if err := h.templates.Delete(ctx, params.ID); err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{ID: params.ID, Deleted: existed}, nil
}

// ListTemplates returns template summaries, newest first.
func (h *Handler) ListTemplates(_ context.Context, _ EmptyParams) (ListTemplatesResult, error) {
	templates := h.templates.List()
	out := make([]TemplateSummary, 0, len(templates))
	for _, t := range templates {
		out = append(out, templateSummaryView(t.Summarize()))
	}
	return ListTemplatesResult{Templates: out}, nil
}

// ExportChecklist renders the list as printable Markdown.
func (h *Handler) ExportChecklist(_ context.Context, _ EmptyParams) (ExportChecklistResult, error) {
	view, err := h.checklist.View()
	if err != nil {
		return ExportChecklistResult{}, err
	}
	var buf bytes.Buffer
	if err := render.Markdown(&buf, h.catalog, view, h.now()); err != nil {
		return ExportChecklistResult{}, fmt.Errorf("rendering checklist: %w", err)
	}
	return ExportChecklistResult{Format: "markdown", Content: buf.String()}, nil
}

// GetRecentActivity lists activity log entries, newest first.
func (h *Handler) GetRecentActivity(ctx context.Context, params GetRecentActivityParams) (GetRecentActivityResult, error) {
	opts := activity.ListActivityOptions{Limit: params.Limit, Offset: params.Offset}
	if params.ActivityType != "" {
		kind := activity.ActivityType(params.ActivityType)
		opts.ActivityType = &kind
	}
	opts.SubjectID = activity.Subject(params.SubjectID)

	entries, err := h.activity.GetRecentActivity(ctx, opts)
	if err != nil {
		return GetRecentActivityResult{}, err
	}
	out := make([]ActivityEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, activityView(e))
	}
	return GetRecentActivityResult{Entries: out}, nil
}

func (h *Handler) checklistResult(view checklist.View) ChecklistResult {
	result := ChecklistResult{
		Locale:     view.Locale,
		Parameters: view.Parameters,
		Categories: make([]ChecklistCategory, 0, len(view.Groups)),
	}
	for _, group := range view.Groups {
		cat := ChecklistCategory{
			Category: group.Category,
			Label:    h.categoryLabel(view.Locale, group.Category),
			Items:    make([]ChecklistItem, 0, len(group.Items)),
		}
		for _, item := range group.Items {
			packed := view.Completion[item.Key]
			cat.Items = append(cat.Items, ChecklistItem{
				Key:      item.Key,
				Label:    render.ItemLabel(h.catalog, view.Locale, item),
				Quantity: item.Quantity,
				Category: item.Category,
				Custom:   item.IsCustom,
				Packed:   packed,
			})
			cat.Total++
			if packed {
				cat.Packed++
			}
		}
		cat.Complete = cat.Total > 0 && cat.Packed == cat.Total
		result.Total += cat.Total
		result.Packed += cat.Packed
		result.Categories = append(result.Categories, cat)
	}
	if result.Total > 0 {
		result.Percent = result.Packed * 100 / result.Total
	}
	result.SaveError = h.saveError()
	return result
}

func (h *Handler) progressResult() ProgressResult {
	locale := h.checklist.Locale()
	progress := h.checklist.Progress()
	out := ProgressResult{
		Packed:     progress.Packed,
		Total:      progress.Total,
		Percent:    progress.Percent,
		Categories: make([]CategoryProgress, 0, len(progress.Categories)),
		SaveError:  h.saveError(),
	}
	for _, c := range progress.Categories {
		out.Categories = append(out.Categories, CategoryProgress{
			Category: c.Category,
			Label:    h.categoryLabel(locale, c.Category),
			Packed:   c.Packed,
			Total:    c.Total,
			Complete: c.Complete(),
		})
	}
	return out
}

// saveError reports a failed checklist write. It clears once a later write
// succeeds.
func (h *Handler) saveError() string {
	if err := h.checklist.LastSaveError(); err != nil {
		return err.Error()
	}
	return ""
}

func (h *Handler) categoryLabel(locale string, category packing.Category) string {
	return h.catalog.CategoryLabel(locale, string(category), category.LabelKey())
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	return json.Unmarshal(params, out)
}
