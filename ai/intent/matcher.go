package intent

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hrygo/homebox/store"
)

// FindBestLocation returns the most specific location whose name occurs in text, or nil.
// Containers outrank rooms; among the same kind, longer names outrank shorter ones.
// The input slice is never reordered.
func FindBestLocation(text string, locations []*store.Location) *store.Location {
	sorted := make([]*store.Location, 0, len(locations))
	for _, l := range locations {
		if l != nil && l.Name != "" {
			sorted = append(sorted, l)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Kind.IsRoom() != b.Kind.IsRoom() {
			return !a.Kind.IsRoom()
		}
		return utf8.RuneCountInString(a.Name) > utf8.RuneCountInString(b.Name)
	})

	for _, l := range sorted {
		if strings.Contains(text, l.Name) {
			return l
		}
	}
	return nil
}

// FindAllLocations returns every location whose name occurs in text, in input order.
func FindAllLocations(text string, locations []*store.Location) []*store.Location {
	var matched []*store.Location
	for _, l := range locations {
		if l != nil && l.Name != "" && strings.Contains(text, l.Name) {
			matched = append(matched, l)
		}
	}
	return matched
}

// findLocationByName returns the first location named exactly name.
func findLocationByName(name string, locations []*store.Location) *store.Location {
	for _, l := range locations {
		if l != nil && l.Name == name {
			return l
		}
	}
	return nil
}

// findRoomByName returns the first room named exactly name.
func findRoomByName(name string, locations []*store.Location) *store.Location {
	for _, l := range locations {
		if l != nil && l.Kind.IsRoom() && l.Name == name {
			return l
		}
	}
	return nil
}

// firstRoomIn returns the name of the first room, in snapshot order, whose name occurs in text.
func firstRoomIn(text string, locations []*store.Location) string {
	for _, l := range locations {
		if l != nil && l.Kind.IsRoom() && l.Name != "" && strings.Contains(text, l.Name) {
			return l.Name
		}
	}
	return ""
}
