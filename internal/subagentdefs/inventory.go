package subagentdefs

import "sort"

// Conflict explains why a losing definition did not become the active
// record for its name.
type Conflict struct {
	Name        string `json:"name"`
	LosingScope Scope  `json:"losingScope"`
	Reason      string `json:"reason"`
}

const (
	ReasonInvalidDefinition = "invalid definition"
	ReasonDisabledSubagent  = "disabled subagent"
	ReasonProjectOverride   = "project override"
	ReasonDuplicate         = "duplicate definition"
	ReasonNoActiveRecord    = "no active definition available"
)

// Inventory is the resolved view of every discovered sub-agent: one active
// Record per normalized name, plus the conflicts and invalid records that
// lost precedence.
type Inventory struct {
	Subagents       map[string]Record
	Conflicts       []Conflict
	DiscoveryEvents []DiscoveryEvent
	invalid         []Record
}

// Invalid returns every record that failed validation, across all scopes.
func (inv Inventory) Invalid() []Record {
	return inv.invalid
}

func scopePrecedence(s Scope) int {
	if s == ScopeProject {
		return 2
	}
	return 1
}

// BuildInventory groups definitions by normalized name, resolves Project >
// User precedence within each group, and records conflicts per the
// precedence rules: Project wins over User when both are valid; an
// invalid Project definition yields to a valid User one.
func BuildInventory(enabled bool, defaultModel string, definitions []Definition, discoveryEvents []DiscoveryEvent) Inventory {
	inv := Inventory{Subagents: make(map[string]Record), DiscoveryEvents: discoveryEvents}

	if !enabled {
		inv.DiscoveryEvents = append(inv.DiscoveryEvents, DiscoveryEvent{Message: "subagents feature disabled via configuration"})
		return inv
	}

	grouped := make(map[string][]Definition)
	var order []string
	for _, def := range definitions {
		key := def.Name
		if key == "" {
			key = NormalizeName(def.RawName)
		}
		if _, ok := grouped[key]; !ok {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], def)
	}
	sort.Strings(order)

	for _, name := range order {
		defs := grouped[name]
		sort.SliceStable(defs, func(i, j int) bool {
			return scopePrecedence(defs[i].Scope) > scopePrecedence(defs[j].Scope)
		})

		records := make([]Record, len(defs))
		for i, def := range defs {
			records[i] = FromDefinition(def, enabled, defaultModel)
		}

		chosenIdx := -1
		for i, r := range records {
			if r.Status == StatusActive {
				chosenIdx = i
				break
			}
		}

		if chosenIdx >= 0 {
			inv.Subagents[name] = records[chosenIdx]
		}

		var chosenScope *Scope
		if chosenIdx >= 0 {
			s := records[chosenIdx].Definition.Scope
			chosenScope = &s
		}

		for i, r := range records {
			switch r.Status {
			case StatusInvalid:
				inv.invalid = append(inv.invalid, r)
			case StatusDisabled:
				inv.DiscoveryEvents = append(inv.DiscoveryEvents, DiscoveryEvent{
					Message: "subagent '" + r.Definition.Name + "' skipped because feature is disabled",
				})
			}

			if i == chosenIdx {
				continue
			}

			reason := ReasonDuplicate
			switch {
			case r.IsInvalid():
				reason = ReasonInvalidDefinition
			case r.Status == StatusDisabled:
				reason = ReasonDisabledSubagent
			case chosenScope == nil:
				reason = ReasonNoActiveRecord
			case *chosenScope != r.Definition.Scope:
				reason = ReasonProjectOverride
			}

			inv.Conflicts = append(inv.Conflicts, Conflict{
				Name:        r.Definition.Name,
				LosingScope: r.Definition.Scope,
				Reason:      reason,
			})
		}
	}

	return inv
}
