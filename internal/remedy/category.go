// Package remedy reveals the remedy lists for a diagnosis, one category at a
// time, each with a random sample of at most SampleSize entries.
package remedy

import (
	"net/url"
	"strings"

	"github.com/ayushhealth/ayushbot/internal/predictor"
)

// Category is one list in the remedy bundle.
type Category int

const (
	// Ayurvedic is shown with the diagnosis, not on request.
	Ayurvedic Category = iota
	Yoga
	Diet
	FoodAvoid
	Allopathic
)

type categoryInfo struct {
	name   string
	intro  string
	prefix string
	search string // empty: no link
	items  func(*predictor.Bundle) []string
}

var categories = map[Category]categoryInfo{
	Ayurvedic: {
		name:   "ayurvedic",
		intro:  "Here are some Ayurvedic remedies for you:",
		prefix: "🌿",
		search: "ayurvedic remedies",
		items:  func(b *predictor.Bundle) []string { return b.AyurvedicRemedies },
	},
	Yoga: {
		name:   "yoga",
		intro:  "Here are some yoga poses for you:",
		prefix: "🧘",
		search: "yoga",
		items:  func(b *predictor.Bundle) []string { return b.Yoga },
	},
	Diet: {
		name:   "diet",
		intro:  "Here are some Ayurvedic diet recommendations for you:",
		prefix: "🥗",
		search: "diet",
		items:  func(b *predictor.Bundle) []string { return b.AyurvedicDiet },
	},
	FoodAvoid: {
		name:   "food-avoid",
		intro:  "Here are some foods to avoid:",
		prefix: "❌",
		items:  func(b *predictor.Bundle) []string { return b.FoodAvoid },
	},
	Allopathic: {
		name:   "allopathic",
		intro:  "Here are some Allopathic remedy for you:",
		prefix: "💊",
		search: "medicine",
		items:  func(b *predictor.Bundle) []string { return b.Remedy },
	},
}

// OnDemand lists the categories the user reveals by choice, in display order.
var OnDemand = []Category{Yoga, Diet, FoodAvoid, Allopathic}

func (c Category) String() string {
	return categories[c].name
}

// Intro is the line typed before the entries.
func (c Category) Intro() string {
	return categories[c].intro
}

// Prefix is the marker put before each entry.
func (c Category) Prefix() string {
	return categories[c].prefix
}

// Items returns the bundle field for c.
func (c Category) Items(b *predictor.Bundle) []string {
	info, ok := categories[c]
	if !ok || b == nil {
		return nil
	}
	return info.items(b)
}

// Surface is the render surface the category is typed onto.
func (c Category) Surface() string {
	return "remedy:" + c.String()
}

// SearchLink returns the "Know more" web search for c and disease, or ""
// when the category has none.
func (c Category) SearchLink(disease string) string {
	kind := categories[c].search
	if kind == "" {
		return ""
	}
	q := kind + " for " + strings.ReplaceAll(disease, "_", " ") + " across internet"
	return "https://www.google.com/search?q=" + url.QueryEscape(q)
}

// ParseCategory maps a name from String back to its Category.
func ParseCategory(name string) (Category, bool) {
	for c, info := range categories {
		if info.name == strings.ToLower(strings.TrimSpace(name)) {
			return c, true
		}
	}
	return 0, false
}
