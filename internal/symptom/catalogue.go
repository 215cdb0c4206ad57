package symptom

import (
	_ "embed"
	"sort"
	"strings"
	"sync"
)

//go:embed catalogue.txt
var catalogueText string

var catalogue = sync.OnceValue(func() []string {
	var ids []string
	for _, line := range strings.Split(catalogueText, "\n") {
		if id := strings.TrimSpace(line); id != "" && !strings.HasPrefix(id, "#") {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
})

// Catalogue returns the symptom ids offered when seeding a session, sorted.
func Catalogue() []string {
	return append([]string(nil), catalogue()...)
}

// Known reports whether id is in the catalogue.
func Known(id string) bool {
	ids := catalogue()
	i := sort.SearchStrings(ids, id)
	return i < len(ids) && ids[i] == id
}

// Search returns catalogue ids whose label contains query, case-insensitively.
// Ids whose label starts with query come first. An empty query matches all.
func Search(query string) []string {
	q := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(query, "_", " ")))
	if q == "" {
		return Catalogue()
	}
	var prefix, inner []string
	for _, id := range catalogue() {
		l := strings.ToLower(Label(id))
		switch {
		case strings.HasPrefix(l, q):
			prefix = append(prefix, id)
		case strings.Contains(l, q):
			inner = append(inner, id)
		}
	}
	return append(prefix, inner...)
}
