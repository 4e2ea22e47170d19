package networth

import "testing"

func TestCriterionMatches(t *testing.T) {
	line := groceries()

	testCases := []struct {
		name      string
		criterion Criterion
		want      bool
	}{
		{
			name:      "contains is case-insensitive",
			criterion: Criterion{Field: FieldContraAccountName, Op: OpContains, Value: "albert"},
			want:      true,
		},
		{
			name:      "contains rejects absent substring",
			criterion: Criterion{Field: FieldContraAccountName, Op: OpContains, Value: "jumbo"},
			want:      false,
		},
		{
			name:      "empty contains value matches anything",
			criterion: Criterion{Field: FieldDescription, Op: OpContains, Value: ""},
			want:      true,
		},
		{
			name:      "equals trims and ignores case",
			criterion: Criterion{Field: FieldContraAccountName, Op: OpEquals, Value: "  ALBERT HEIJN "},
			want:      true,
		},
		{
			name:      "equals rejects partial value",
			criterion: Criterion{Field: FieldContraAccountName, Op: OpEquals, Value: "Albert"},
			want:      false,
		},
		{
			name:      "starts-with prefix",
			criterion: Criterion{Field: FieldContraAccount, Op: OpStartsWith, Value: "nl11shop"},
			want:      true,
		},
		{
			name:      "starts-with rejects mid-string match",
			criterion: Criterion{Field: FieldContraAccount, Op: OpStartsWith, Value: "SHOP"},
			want:      false,
		},
		{
			name:      "own account field",
			criterion: Criterion{Field: FieldOwnAccount, Op: OpEquals, Value: "nl00bank0123456789"},
			want:      true,
		},
		{
			name:      "description field",
			criterion: Criterion{Field: FieldDescription, Op: OpContains, Value: "week 7"},
			want:      true,
		},
		{
			name:      "unknown field falls back to contra name",
			criterion: Criterion{Field: CriterionField("merchant"), Op: OpContains, Value: "heijn"},
			want:      true,
		},
		{
			name:      "unknown operator behaves as contains",
			criterion: Criterion{Field: FieldDescription, Op: CriterionOperator("regex"), Value: "groceries"},
			want:      true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.criterion.Matches(line); got != tc.want {
				t.Errorf("Matches() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRuleMatchesRequiresAllCriteria(t *testing.T) {
	line := groceries()

	rule := BusinessRule{
		ID: "r1",
		Criteria: []Criterion{
			{Field: FieldContraAccountName, Op: OpContains, Value: "albert"},
			{Field: FieldDescription, Op: OpStartsWith, Value: "groceries"},
		},
	}
	if !rule.Matches(line) {
		t.Error("rule with two matching criteria should match")
	}

	rule.Criteria[1].Value = "rent"
	if rule.Matches(line) {
		t.Error("rule should not match when one criterion fails")
	}
}

func TestRuleWithoutCriteriaNeverMatches(t *testing.T) {
	if (BusinessRule{ID: "r"}).Matches(groceries()) {
		t.Error("a rule without criteria must never match")
	}
}

func TestParseFallbacks(t *testing.T) {
	if got := ParseCriterionField("Merchant"); got != FieldContraAccountName {
		t.Errorf("ParseCriterionField fallback = %q, want %q", got, FieldContraAccountName)
	}
	if got := ParseCriterionOperator("matches"); got != OpContains {
		t.Errorf("ParseCriterionOperator fallback = %q, want %q", got, OpContains)
	}
	if got := ParseAmountType("Zero"); got != ZeroAmount {
		t.Errorf("ParseAmountType(Zero) = %v, want ZeroAmount", got)
	}
	if got := ParseAmountType("anything else"); got != OppositeOfFirstLine {
		t.Errorf("ParseAmountType fallback = %v, want OppositeOfFirstLine", got)
	}
}

func TestCriterionKeyNormalization(t *testing.T) {
	a := Criterion{Field: FieldDescription, Op: OpContains, Value: " Rent "}
	b := Criterion{Field: FieldDescription, Op: OpContains, Value: "rent"}
	if a.Key() != b.Key() {
		t.Errorf("keys differ: %q vs %q", a.Key(), b.Key())
	}
}
