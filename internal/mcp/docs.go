package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `packlist turns a trip description into a categorized packing checklist and remembers what is packed.

Core concepts:
- Trip parameters: nights (1-365, clamped), weather (warm|medium|cold), accommodation
  (hotel|hostel|mountain_cabin|holiday_home) and flags beach, sauna, hiking, climbing,
  abroad, flight, has_camera, has_washing_machine.
- Item key: stable, language-independent identifier of a list line (e.g. "shirt").
  Custom items use "custom_<id>". Packed state is stored per key.
- Custom item: user-authored line appended to every generated list, never merged with others.
- Template: named preset of trip parameters, custom items and packed state.

Default workflow:
1) generate_list with the trip parameters (regenerating keeps packed state of items that remain).
2) get_checklist to show the list; toggle_item(key) as things get packed; get_progress for counts.
3) add_custom_item / edit_custom_item / delete_custom_item for anything the rules miss.
4) save_template to reuse a trip; load_template replaces custom items and packed state.
5) export_checklist for a printable Markdown copy.

State is saved automatically about a second after the last change.

Docs:
- packlist://docs/index
- packlist://docs/rules
- packlist://docs/persistence
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "packlist://docs/index",
		Name:        "docs_index",
		Title:       "packlist docs index",
		Description: "Entry point: what the tools do and which doc to read.",
		Content: `# packlist: Docs Index

## Quick start

1. ` + "`generate_list`" + ` with nights, weather, accommodation and activity flags.
2. ` + "`get_checklist`" + ` to read the list grouped by category.
3. ` + "`toggle_item`" + ` with an item key to mark it packed.
4. ` + "`get_progress`" + ` for packed counts overall and per category.

## Docs

- ` + "`packlist://docs/rules`" + ` - how items and quantities are derived.
- ` + "`packlist://docs/persistence`" + ` - what is saved, when, and what happens to bad data.

## Errors

Tool errors carry a stable code:
- ` + "`VALIDATION_FAILED`" + ` lists every invalid trip field.
- ` + "`NO_LIST`" + ` means no list was generated yet.
- ` + "`ITEM_NOT_FOUND`" + ` / ` + "`TEMPLATE_NOT_FOUND`" + ` name a missing key or id.
- ` + "`QUOTA_EXCEEDED`" + ` / ` + "`STORAGE_WRITE_FAILED`" + ` mean the change was not saved.
`,
	},
	{
		URI:         "packlist://docs/rules",
		Name:        "docs_rules",
		Title:       "List generation rules",
		Description: "Which items each trip parameter adds, and how quantities scale with nights.",
		Content: `# List generation rules

The list is derived from the trip parameters by a fixed sequence of rules. The same
parameters and custom items always produce the same list in the same order.

## Clothing

- Shirts, underwear and sock pairs: one per night. With a washing machine, at most 7,
  and detergent is added.
- Warm: sunscreen, sunglasses, vests and shorts.
- Medium: a jacket, vests, shorts and pants.
- Cold: jacket, gloves, hat, vests and pants.
- Weather layers scale with nights (one per 5 nights, capped at 2 with a washing machine).
- More than 5 nights adds extra shoes, more than 3 a shaver, more than 7 a nail clipper.

## Activities and travel

Beach, sauna, hiking and climbing each add their own gear. Hiking in medium weather
also adds sunscreen and sunglasses. Abroad, flight and each accommodation type add
travel items. Electronics, personal care and miscellaneous basics are always included.

## Duplicates

Two rules that would produce the same text in the active language produce one line;
the first rule wins. Custom items are never merged with generated items or each other.

## Quantities

Quantities are at least 1. Items needed more than once show the count, e.g. "Shirts (7)".
`,
	},
	{
		URI:         "packlist://docs/persistence",
		Name:        "docs_persistence",
		Title:       "Persistence",
		Description: "What is stored, write timing, quota and discarded state.",
		Content: `# Persistence

Three collections are stored independently: the checklist snapshot, custom items,
and templates.

## Checklist snapshot

- Saved about one second after the last change; rapid toggles produce one write.
- Stores trip parameters, the generated list and packed state keyed by item key.
- If a save fails (for example the storage quota is full), checklist and progress
  results carry ` + "`save_error`" + ` until a later save succeeds.
- A snapshot written by an incompatible version, or one that fails validation, is
  discarded on startup. The discard is recorded in ` + "`get_recent_activity`" + `.

## Custom items and templates

- Every change is written immediately. If the write fails the change is rolled back
  and the tool returns ` + "`QUOTA_EXCEEDED`" + ` or ` + "`STORAGE_WRITE_FAILED`" + `.
- Loading a template gives its custom items new ids; packed state follows them.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
