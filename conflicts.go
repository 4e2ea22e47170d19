package networth

import "slices"

// DetectConflicts returns, per rule id, the sorted ids of the other rules
// that share at least one criterion with it (same field, operator and value,
// compared case-insensitively after trimming).
//
// A conflict is a hint for the user, not an error: when two conflicting
// rules both match a line, ranking decides which one applies first. System
// rules always map to an empty list and never count as conflicting with
// anything.
func DetectConflicts(rules []BusinessRule) map[string][]string {
	// Index every criterion key of every non-system rule.
	byKey := make(map[string][]string)
	for _, r := range rules {
		if r.System {
			continue
		}
		seen := make(map[string]bool)
		for _, c := range r.Criteria {
			key := c.Key()
			if seen[key] {
				continue // a rule repeating a criterion counts once
			}
			seen[key] = true
			byKey[key] = append(byKey[key], r.ID)
		}
	}

	conflicts := make(map[string][]string, len(rules))
	for _, r := range rules {
		others := make(map[string]bool)
		if !r.System {
			for _, c := range r.Criteria {
				for _, id := range byKey[c.Key()] {
					if id != r.ID {
						others[id] = true
					}
				}
			}
		}
		ids := make([]string, 0, len(others))
		for id := range others {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		conflicts[r.ID] = ids
	}
	return conflicts
}
