package packing

import "strings"

// Category groups packing items on the checklist.
type Category string

const (
	CategoryClothing      Category = "clothing"
	CategoryPersonal      Category = "personal"
	CategoryBeach         Category = "beach"
	CategorySauna         Category = "sauna"
	CategoryHiking        Category = "hiking"
	CategoryClimbing      Category = "climbing"
	CategoryElectronics   Category = "electronics"
	CategoryTravel        Category = "travel"
	CategoryAccommodation Category = "accommodation"
	CategoryMisc          Category = "misc"
)

// Categories lists the built-in categories in display order.
var Categories = []Category{
	CategoryClothing,
	CategoryPersonal,
	CategoryBeach,
	CategorySauna,
	CategoryHiking,
	CategoryClimbing,
	CategoryElectronics,
	CategoryTravel,
	CategoryAccommodation,
	CategoryMisc,
}

// LabelKey returns the localization key for the category heading,
// e.g. "categoryClothing". Custom categories have no label key.
func (c Category) LabelKey() string {
	for _, known := range Categories {
		if c == known {
			s := string(c)
			return "category" + strings.ToUpper(s[:1]) + s[1:]
		}
	}
	return ""
}

// Item is one line of a generated packing list. Key is a stable,
// locale-independent identifier; custom items carry the user's text in Label.
type Item struct {
	Key      string   `json:"key"`
	Quantity int      `json:"quantity"`
	Category Category `json:"category"`
	IsCustom bool     `json:"is_custom,omitempty"`
	Label    string   `json:"label,omitempty"`
}

const customKeyPrefix = "custom_"

// CustomKey returns the list key used for the custom item with the given id.
func CustomKey(id string) string {
	return customKeyPrefix + id
}

// CustomID returns the custom item id encoded in key, if any.
func CustomID(key string) (string, bool) {
	if !strings.HasPrefix(key, customKeyPrefix) {
		return "", false
	}
	return strings.TrimPrefix(key, customKeyPrefix), true
}

// Group is the set of items belonging to one category.
type Group struct {
	Category Category `json:"category"`
	Items    []Item   `json:"items"`
}

// GroupByCategory groups items by category. Groups appear in the order their
// category was first seen; items keep their list order.
func GroupByCategory(items []Item) []Group {
	index := make(map[Category]int)
	var groups []Group
	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(groups)
			index[item.Category] = i
			groups = append(groups, Group{Category: item.Category})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}
