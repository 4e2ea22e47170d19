package networth

import (
	"slices"
	"strings"
)

// RankRules orders rules for deterministic application: by number of
// criteria descending (more specific rules first), then explicit priority
// ascending, then id ascending. The last key makes the order total, so two
// runs over the same rule set always agree.
func RankRules(rules []BusinessRule) []BusinessRule {
	ranked := slices.Clone(rules)
	slices.SortFunc(ranked, func(a, b BusinessRule) int {
		if n := len(b.Criteria) - len(a.Criteria); n != 0 {
			return n
		}
		if n := a.Priority - b.Priority; n != 0 {
			return n
		}
		return strings.Compare(a.ID, b.ID)
	})
	return ranked
}

// FirstMatch returns the first rule in ranked order that matches the line.
// Used for own-account resolution, where a single rule decides.
func FirstMatch(rules []BusinessRule, line TransactionLine) (BusinessRule, bool) {
	for _, r := range RankRules(rules) {
		if r.Matches(line) {
			return r, true
		}
	}
	return BusinessRule{}, false
}

// AllMatches returns every rule that matches the line, in ranked order.
// Used for contra resolution, where all matching rules contribute lines.
func AllMatches(rules []BusinessRule, line TransactionLine) []BusinessRule {
	var matched []BusinessRule
	for _, r := range RankRules(rules) {
		if r.Matches(line) {
			matched = append(matched, r)
		}
	}
	return matched
}
