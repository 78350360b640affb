package mcp

import (
	"context"
	"encoding/json"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// tool binds one operation to both the MCP tool surface and JSON-RPC dispatch.
type tool struct {
	name        string
	description string
	register    func(server *sdkmcp.Server)
	call        func(ctx context.Context, params json.RawMessage) (any, error)
}

func newTool[I, O any](h *Handler, name, description string, fn func(context.Context, I) (O, error)) tool {
	invoke := func(ctx context.Context, in I) (O, error) {
		h.mu.Lock()
		defer h.mu.Unlock()
		out, err := fn(ctx, in)
		if err != nil {
			h.logger.DebugContext(ctx, "tool failed", "tool", name, "error", err)
			var zero O
			return zero, mapError(err)
		}
		return out, nil
	}

	return tool{
		name:        name,
		description: description,
		register: func(server *sdkmcp.Server) {
			sdkmcp.AddTool(server, &sdkmcp.Tool{Name: name, Description: description},
				func(ctx context.Context, _ *sdkmcp.CallToolRequest, in I) (*sdkmcp.CallToolResult, O, error) {
					out, err := invoke(ctx, in)
					return nil, out, err
				})
		},
		call: func(ctx context.Context, params json.RawMessage) (any, error) {
			var in I
			if err := decodeParams(params, &in); err != nil {
				return nil, &APIError{Code: CodeInvalidParams, Message: err.Error()}
			}
			return invoke(ctx, in)
		},
	}
}

func (h *Handler) buildTools() []tool {
	return []tool{
		newTool(h, "generate_list",
			"Generate a packing list from trip parameters. Completion of items that remain on the list is kept.",
			h.GenerateList),
		newTool(h, "get_checklist",
			"Get the current packing list grouped by category, with packed state and counts.",
			h.GetChecklist),
		newTool(h, "toggle_item",
			"Mark an item packed or unpacked by key. Omitting packed flips the current state.",
			h.ToggleItem),
		newTool(h, "get_progress",
			"Get packed counts overall and per category.",
			h.GetProgress),
		newTool(h, "set_locale",
			"Switch the display language (en, de). The list is regenerated in the new language.",
			h.SetLocale),
		newTool(h, "add_custom_item",
			"Add a custom item that is appended to every generated list.",
			h.AddCustomItem),
		newTool(h, "edit_custom_item",
			"Edit the name, quantity or category of a custom item.",
			h.EditCustomItem),
		newTool(h, "delete_custom_item",
			"Delete a custom item by id.",
			h.DeleteCustomItem),
		newTool(h, "list_custom_items",
			"List custom items.",
			h.ListCustomItems),
		newTool(h, "save_template",
			"Save the trip parameters, custom items and packed state as a named template.",
			h.SaveTemplate),
		newTool(h, "load_template",
			"Load a template. Its custom items replace the current ones and its packed state is applied.",
			h.LoadTemplate),
		newTool(h, "delete_template",
			"Delete a template by id.",
			h.DeleteTemplate),
		newTool(h, "list_templates",
			"List saved templates, newest first.",
			h.ListTemplates),
		newTool(h, "export_checklist",
			"Export the current list as printable Markdown.",
			h.ExportChecklist),
		newTool(h, "get_recent_activity",
			"List recent changes: generated lists, custom item and template edits, discarded state.",
			h.GetRecentActivity),
	}
}

func registerTools(server *sdkmcp.Server, h *Handler) {
	for _, t := range h.tools {
		t.register(server)
	}
}
