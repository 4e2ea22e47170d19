package networth

import "testing"

func TestRankRulesOrder(t *testing.T) {
	one := Criterion{Field: FieldDescription, Op: OpContains, Value: "a"}
	rules := []BusinessRule{
		{ID: "c", Priority: 5, Criteria: []Criterion{one}},
		{ID: "a", Priority: 5, Criteria: []Criterion{one}},
		{ID: "b", Priority: 1, Criteria: []Criterion{one}},
		{ID: "d", Priority: 9, Criteria: []Criterion{one, one}},
	}

	ranked := RankRules(rules)
	want := []string{"d", "b", "a", "c"} // specificity first, then priority, then id
	for i, id := range want {
		if ranked[i].ID != id {
			t.Fatalf("ranked[%d] = %q, want %q (full order %v)", i, ranked[i].ID, id, ids(ranked))
		}
	}
}

func TestRankRulesIsTotal(t *testing.T) {
	// Identical criteria and priority: id must still break the tie, in both
	// input orders.
	one := Criterion{Field: FieldDescription, Op: OpContains, Value: "x"}
	a := BusinessRule{ID: "a", Criteria: []Criterion{one}}
	b := BusinessRule{ID: "b", Criteria: []Criterion{one}}

	for _, input := range [][]BusinessRule{{a, b}, {b, a}} {
		ranked := RankRules(input)
		if ranked[0].ID != "a" || ranked[1].ID != "b" {
			t.Errorf("order not deterministic: got %v", ids(ranked))
		}
	}
}

func TestRankRulesDoesNotMutateInput(t *testing.T) {
	rules := []BusinessRule{{ID: "b"}, {ID: "a"}}
	RankRules(rules)
	if rules[0].ID != "b" {
		t.Error("RankRules must not reorder its input")
	}
}

func TestFirstMatch(t *testing.T) {
	line := groceries()
	broad := NewSimpleRule("broad", "any shop", FieldContraAccountName, OpContains, "heijn",
		LineItem{LedgerID: "4000"})
	narrow := BusinessRule{
		ID:   "narrow",
		Name: "groceries",
		Criteria: []Criterion{
			{Field: FieldContraAccountName, Op: OpContains, Value: "heijn"},
			{Field: FieldDescription, Op: OpContains, Value: "groceries"},
		},
		Items:  []LineItem{{LedgerID: "4100"}},
		Active: true,
	}

	got, ok := FirstMatch([]BusinessRule{broad, narrow}, line)
	if !ok || got.ID != "narrow" {
		t.Errorf("FirstMatch = %q, %v; want narrow, true", got.ID, ok)
	}

	_, ok = FirstMatch([]BusinessRule{broad, narrow}, TransactionLine{ContraName: "Shell"})
	if ok {
		t.Error("FirstMatch should report no match for an unrelated line")
	}
}

func TestAllMatchesKeepsRankOrder(t *testing.T) {
	line := groceries()
	broad := NewSimpleRule("broad", "", FieldContraAccountName, OpContains, "heijn")
	narrow := BusinessRule{
		ID: "narrow",
		Criteria: []Criterion{
			{Field: FieldContraAccountName, Op: OpContains, Value: "heijn"},
			{Field: FieldDescription, Op: OpContains, Value: "week"},
		},
		Active: true,
	}
	other := NewSimpleRule("other", "", FieldDescription, OpContains, "salary")

	matched := AllMatches([]BusinessRule{broad, other, narrow}, line)
	if len(matched) != 2 || matched[0].ID != "narrow" || matched[1].ID != "broad" {
		t.Errorf("AllMatches = %v, want [narrow broad]", ids(matched))
	}
}

func ids(rules []BusinessRule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.ID
	}
	return out
}
