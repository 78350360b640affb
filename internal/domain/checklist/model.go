package checklist

import (
	"github.com/rpggio/packlist/internal/domain/packing"
	"github.com/rpggio/packlist/internal/domain/trip"
)

// View is what the renderer is given after each regeneration.
type View struct {
	Locale     string          `json:"locale"`
	Parameters trip.Parameters `json:"parameters"`
	Items      []packing.Item  `json:"items"`
	Groups     []packing.Group `json:"groups"`
	Completion map[string]bool `json:"completion"`
}

// Progress counts packed items overall and per category.
type Progress struct {
	Total      int                `json:"total"`
	Packed     int                `json:"packed"`
	Percent    int                `json:"percent"`
	Categories []CategoryProgress `json:"categories"`
}

// CategoryProgress counts packed items in one category.
type CategoryProgress struct {
	Category packing.Category `json:"category"`
	Total    int              `json:"total"`
	Packed   int              `json:"packed"`
}

// Complete reports whether every item in the category is packed.
func (c CategoryProgress) Complete() bool {
	return c.Total > 0 && c.Packed == c.Total
}

func countProgress(items []packing.Item, completion map[string]bool) Progress {
	var p Progress
	index := make(map[packing.Category]int)
	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(p.Categories)
			index[item.Category] = i
			p.Categories = append(p.Categories, CategoryProgress{Category: item.Category})
		}
		p.Total++
		p.Categories[i].Total++
		if completion[item.Key] {
			p.Packed++
			p.Categories[i].Packed++
		}
	}
	if p.Total > 0 {
		p.Percent = p.Packed * 100 / p.Total
	}
	return p
}
