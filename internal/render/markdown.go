package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rpggio/packlist/internal/domain/checklist"
	"github.com/rpggio/packlist/internal/domain/packing"
	"github.com/rpggio/packlist/internal/domain/trip"
)

// Localizer resolves display text.
type Localizer interface {
	Lookup(locale, key string) (string, bool)
	Text(locale, key string) string
	CategoryLabel(locale, category, labelKey string) string
}

// ItemLabel is the text of one checklist line: the display name, followed by
// the quantity when more than one is needed.
func ItemLabel(loc Localizer, locale string, item packing.Item) string {
	name := item.Label
	if !item.IsCustom {
		name = packing.DisplayName(loc, locale, item.Key, item.Quantity)
	}
	if item.Quantity <= 1 {
		return name
	}
	suffix := fmt.Sprintf(" (%d)", item.Quantity)
	if strings.HasSuffix(name, suffix) {
		return name
	}
	return name + suffix
}

// Markdown writes view as a printable checklist with a header naming the
// trip and the generation date.
func Markdown(w io.Writer, loc Localizer, view checklist.View, generated time.Time) error {
	bw := bufio.NewWriter(w)
	locale := view.Locale
	p := view.Parameters

	fmt.Fprintf(bw, "# %s\n\n", loc.Text(locale, "printTitle"))
	fmt.Fprintf(bw, "%s: %s\n\n", loc.Text(locale, "printGenerated"), generated.Format(time.DateOnly))
	fmt.Fprintf(bw, "%s: %d %s, %s %s, %s\n",
		loc.Text(locale, "printTrip"),
		p.Nights, loc.Text(locale, "printNights"),
		loc.Text(locale, weatherKey(p.Weather)), loc.Text(locale, "printWeather"),
		loc.Text(locale, accommodationKey(p.Accommodation)),
	)

	progress := checklistProgress(view)
	for i, group := range view.Groups {
		counts := progress[i]
		label := loc.CategoryLabel(locale, string(group.Category), group.Category.LabelKey())
		fmt.Fprintf(bw, "\n## %s (%d %s %d %s)\n\n",
			label, counts.Packed, loc.Text(locale, "of"), counts.Total, loc.Text(locale, "packed"))
		for _, item := range group.Items {
			box := " "
			if view.Completion[item.Key] {
				box = "x"
			}
			fmt.Fprintf(bw, "- [%s] %s\n", box, ItemLabel(loc, locale, item))
		}
	}

	return bw.Flush()
}

func checklistProgress(view checklist.View) []checklist.CategoryProgress {
	out := make([]checklist.CategoryProgress, len(view.Groups))
	for i, group := range view.Groups {
		out[i].Category = group.Category
		for _, item := range group.Items {
			out[i].Total++
			if view.Completion[item.Key] {
				out[i].Packed++
			}
		}
	}
	return out
}

func weatherKey(w trip.Weather) string {
	return "weather" + camel(string(w))
}

func accommodationKey(a trip.Accommodation) string {
	return "accommodation" + camel(string(a))
}

// camel turns "mountain_cabin" into "MountainCabin".
func camel(s string) string {
	var b strings.Builder
	for _, part := range strings.Split(s, "_") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
