package intent

import (
	"log/slog"

	"github.com/hrygo/homebox/store"
)

// Validate post-processes parsed actions against the snapshot the sentence was parsed with.
// Actions with degenerate names are dropped. An add_item or delete_item whose location is
// neither an existing location nor created earlier in the same list is pointed at the best
// location found in text; when none is found the reference is left for the executor to fail.
func Validate(text string, actions []Action, locations []*store.Location) Actions {
	out, _ := validate(text, actions, locations)
	return out
}

func validate(text string, actions []Action, locations []*store.Location) (Actions, int) {
	created := make(map[string]bool)
	for _, a := range actions {
		switch a.(type) {
		case AddRoom, AddCabinet:
			created[a.ActionName()] = true
		}
	}

	var best *store.Location
	bestResolved := false
	rewrites := 0

	out := make(Actions, 0, len(actions))
	for _, a := range actions {
		if a == nil || IsDegenerateName(a.ActionName()) {
			continue
		}
		ref, ok := locationRef(a)
		if !ok || created[ref] || findLocationByName(ref, locations) != nil {
			out = append(out, a)
			continue
		}

		if !bestResolved {
			best = FindBestLocation(text, locations)
			bestResolved = true
		}
		if best == nil {
			slog.Debug("intent: unresolved location", "action", a.Kind(), "name", a.ActionName(), "location", ref)
			out = append(out, a)
			continue
		}
		slog.Debug("intent: location rewritten", "action", a.Kind(), "name", a.ActionName(), "from", ref, "to", best.Name)
		out = append(out, withLocation(a, best.Name))
		rewrites++
	}
	return out, rewrites
}
