package hooks

import (
	"sort"
	"time"
)

// Registry is the immutable, constructed-once view of every configured
// hook, grouped by event and pre-sorted by precedence.
type Registry struct {
	byEvent    map[Event][]Definition
	layers     []LayerSummary
	lastLoaded time.Time
}

// NewRegistry merges accepted definitions from every layer into buckets by
// event, sorted by (precedence_rank(scope), id).
func NewRegistry(definitions []Definition, layers []LayerSummary) *Registry {
	byEvent := make(map[Event][]Definition)
	for _, d := range definitions {
		byEvent[d.Event] = append(byEvent[d.Event], d)
	}
	for event := range byEvent {
		sortDefinitions(byEvent[event])
	}
	return &Registry{byEvent: byEvent, layers: layers, lastLoaded: time.Now()}
}

// ForEvent returns the precedence-ordered hooks registered for event.
func (r *Registry) ForEvent(event Event) []Definition {
	return r.byEvent[event]
}

// Layers returns the layer summaries recorded at load time.
func (r *Registry) Layers() []LayerSummary {
	return r.layers
}

// LastLoaded is the time the registry was constructed.
func (r *Registry) LastLoaded() time.Time {
	return r.lastLoaded
}

// ListFilter narrows a registry snapshot for the `hooks list` surface.
type ListFilter struct {
	Event *Event
	Scope string // "" | ScopeManagedPolicy | ScopeProject | ScopeLocalUser
}

// Snapshot is the filtered, display-ready view returned by List.
type Snapshot struct {
	Events map[Event][]Definition `json:"events"`
	Layers []LayerSummary         `json:"layers"`
}

// List applies filter and returns a Snapshot with hooks sorted by id within
// each event bucket, and only the matching layer summaries included.
func (r *Registry) List(filter ListFilter) Snapshot {
	snap := Snapshot{Events: make(map[Event][]Definition)}

	for event, defs := range r.byEvent {
		if filter.Event != nil && *filter.Event != event {
			continue
		}
		var kept []Definition
		for _, d := range defs {
			if filter.Scope != "" && d.Scope.Kind != filter.Scope {
				continue
			}
			kept = append(kept, d)
		}
		if len(kept) == 0 {
			continue
		}
		sort.Slice(kept, func(i, j int) bool { return kept[i].ID < kept[j].ID })
		snap.Events[event] = kept
	}

	for _, l := range r.layers {
		if filter.Scope != "" && l.Scope.Kind != filter.Scope {
			continue
		}
		snap.Layers = append(snap.Layers, l)
	}

	return snap
}
