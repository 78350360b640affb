package packing

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/rpggio/packlist/internal/domain/customitem"
	"github.com/rpggio/packlist/internal/domain/trip"
)

// Lookup resolves a localization key to display text for a locale.
type Lookup interface {
	Lookup(locale, key string) (string, bool)
}

// Engine derives packing lists from trip parameters.
//
// Two rules that resolve to the same display text in Locale collapse into one
// line; the first rule to fire wins. Custom items are never collapsed.
type Engine struct {
	Lookup Lookup
	Locale string
}

// Generate returns the packing list for params followed by the custom items.
// params must already be validated and have Nights within [1, 365].
func (e Engine) Generate(params trip.Parameters, custom []customitem.Item) []Item {
	b := &builder{
		engine: e,
		fold:   cases.Fold(),
		seen:   make(map[string]struct{}),
	}

	b.clothing(params)
	b.weather(params)
	b.activities(params)
	b.electronics(params)
	b.travel(params)
	b.accommodation(params)
	b.personalCare(params)
	b.misc()

	for _, c := range custom {
		b.items = append(b.items, Item{
			Key:      CustomKey(c.ID),
			Quantity: c.Quantity,
			Category: Category(c.Category),
			IsCustom: true,
			Label:    c.Name,
		})
	}

	return b.items
}

// DisplayName resolves key to the text shown for quantity items of it.
// For quantities above one the plural form is tried first ("y" becomes "ies",
// otherwise "s" is appended); without one the singular gets a "(n)" suffix.
func DisplayName(lookup Lookup, locale, key string, quantity int) string {
	singular := translate(lookup, locale, key)
	if quantity <= 1 {
		return singular
	}

	pluralKey := key + "s"
	if strings.HasSuffix(key, "y") {
		pluralKey = strings.TrimSuffix(key, "y") + "ies"
	}
	if v, ok := lookupKey(lookup, locale, pluralKey); ok {
		return v
	}
	if v, ok := lookupKey(lookup, locale, key+"s"); ok {
		return v
	}
	return fmt.Sprintf("%s (%d)", singular, quantity)
}

func translate(lookup Lookup, locale, key string) string {
	if v, ok := lookupKey(lookup, locale, key); ok {
		return v
	}
	return key
}

func lookupKey(lookup Lookup, locale, key string) (string, bool) {
	if lookup == nil {
		return "", false
	}
	v, ok := lookup.Lookup(locale, key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

type builder struct {
	engine Engine
	fold   cases.Caser
	seen   map[string]struct{}
	items  []Item
}

func (b *builder) add(key string, quantity int, category Category) {
	name := DisplayName(b.engine.Lookup, b.engine.Locale, key, quantity)
	folded := b.fold.String(name)
	if _, dup := b.seen[folded]; dup {
		return
	}
	b.seen[folded] = struct{}{}
	b.items = append(b.items, Item{Key: key, Quantity: quantity, Category: category})
}

func (b *builder) clothing(p trip.Parameters) {
	if p.HasWashingMachine {
		qty := min(7, p.Nights)
		b.add("shirt", qty, CategoryClothing)
		b.add("detergent", 1, CategoryClothing)
		b.add("underpant", qty, CategoryClothing)
		b.add("sockPair", qty, CategoryClothing)
		return
	}
	b.add("shirt", p.Nights, CategoryClothing)
	b.add("underpant", p.Nights, CategoryClothing)
	b.add("sockPair", p.Nights, CategoryClothing)
}

func (b *builder) weather(p trip.Parameters) {
	perTen := ceilDiv(p.Nights, 10)
	perFive := ceilDiv(p.Nights, 5)
	if p.HasWashingMachine {
		perTen = min(2, perTen)
		perFive = min(2, perFive)
	}

	switch p.Weather {
	case trip.WeatherWarm:
		b.add("sunscreen", 1, CategoryPersonal)
		b.add("sunglasses", 1, CategoryPersonal)
		b.add("vest", perTen, CategoryClothing)
		b.add("pairOfShorts", perFive, CategoryClothing)
	case trip.WeatherMedium:
		b.add("jacket", 1, CategoryClothing)
		b.add("vest", perFive, CategoryClothing)
		b.add("pairOfShorts", perFive, CategoryClothing)
		b.add("pairOfPants", perFive, CategoryClothing)
	case trip.WeatherCold:
		b.add("jacket", 1, CategoryClothing)
		b.add("pairOfGloves", 1, CategoryClothing)
		b.add("hat", 1, CategoryClothing)
		b.add("vest", perFive, CategoryClothing)
		b.add("pairOfPants", perFive, CategoryClothing)
	}

	if p.Nights > 5 {
		b.add("additionalShoes", 1, CategoryClothing)
	}
}

func (b *builder) activities(p trip.Parameters) {
	if p.Beach {
		b.add("swimsuit", 1, CategoryBeach)
		b.add("flipFlops", 1, CategoryBeach)
		b.add("beachTowel", 1, CategoryBeach)
		b.add("sunHat", 1, CategoryBeach)
	}

	if p.Sauna {
		b.add("swimsuit", 1, CategoryBeach)
		b.add("saunaTowel", 1, CategorySauna)
		b.add("bathrobe", 1, CategorySauna)
		b.add("slippers", 1, CategorySauna)
		b.add("saunaHat", 1, CategorySauna)
	}

	if p.Hiking {
		b.add("hikingBoots", 1, CategoryHiking)
		b.add("hikingPants", 1, CategoryHiking)
		b.add("hikingSocks", 2, CategoryHiking)
		b.add("hikingStick", 2, CategoryHiking)
		b.add("backpack", 1, CategoryHiking)
		b.add("waterBag", 1, CategoryHiking)
		b.add("hat", 1, CategoryClothing)
		b.add("headlamp", 1, CategoryClothing)
		if p.Weather == trip.WeatherMedium {
			b.add("sunscreen", 1, CategoryPersonal)
			b.add("sunglasses", 1, CategoryPersonal)
		}
	}

	if p.Climbing {
		b.add("climbingShoes", 1, CategoryClimbing)
		b.add("viaFerrata", 1, CategoryClimbing)
		b.add("carabiner", 1, CategoryClimbing)
		b.add("climbingHarness", 1, CategoryClimbing)
		b.add("helmet", 1, CategoryClimbing)
	}
}

func (b *builder) electronics(p trip.Parameters) {
	for _, key := range []string{
		"phone", "phoneCharger", "notebook", "notebookCharger", "headphones",
		"powerBank", "steamDeck", "usbAdapter", "hdmiCable",
	} {
		b.add(key, 1, CategoryElectronics)
	}

	if p.HasCamera {
		b.add("camera", 1, CategoryElectronics)
		b.add("cameraCharger", 1, CategoryElectronics)
	}
}

func (b *builder) travel(p trip.Parameters) {
	if p.Abroad {
		b.add("passport", 1, CategoryTravel)
		b.add("travelAdapter", 1, CategoryTravel)
	}
	if p.Flight {
		b.add("neckPillow", 1, CategoryTravel)
		b.add("earplugs", 1, CategoryAccommodation)
	}
}

func (b *builder) accommodation(p trip.Parameters) {
	switch p.Accommodation {
	case trip.AccommodationHostel:
		b.add("padlock", 1, CategoryAccommodation)
		b.add("earplugs", 1, CategoryAccommodation)
		b.add("slippers", 1, CategoryPersonal)
		b.add("towels", 1, CategoryAccommodation)
	case trip.AccommodationMountainCabin:
		b.add("sleepingBag", 1, CategoryAccommodation)
		b.add("towel", 1, CategoryAccommodation)
	case trip.AccommodationHolidayHome:
		b.add("aeropress", 1, CategoryAccommodation)
		b.add("knife", 1, CategoryAccommodation)
		b.add("spicery", 1, CategoryAccommodation)
	}
}

func (b *builder) personalCare(p trip.Parameters) {
	for _, key := range []string{
		"toothbrush", "toothpaste", "showerGel", "deodorant", "combBrush", "nightGuard",
	} {
		b.add(key, 1, CategoryPersonal)
	}
	if p.Nights > 3 {
		b.add("shaver", 1, CategoryPersonal)
	}
	if p.Nights > 7 {
		b.add("nailClipper", 1, CategoryPersonal)
	}
}

func (b *builder) misc() {
	for _, key := range []string{
		"cash", "waterBottle", "driversLicense", "painkillers", "bandAid",
		"disinfectant", "chewingGum", "books",
	} {
		b.add(key, 1, CategoryMisc)
	}
	b.add("washingBag", 1, CategoryClothing)
	b.add("condoms", 1, CategoryMisc)
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}
