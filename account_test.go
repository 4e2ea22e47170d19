package networth

import "testing"

func TestParseAccountKind(t *testing.T) {
	tests := []struct {
		input string
		want  AccountKind
		err   bool
	}{
		{"", KindBank, false}, // empty defaults to bank
		{"bank", KindBank, false},
		{"savings", KindSavings, false},
		{"property", KindProperty, false},
		{"mortgage", KindMortgage, false},
		{"Bank", "", true}, // kinds are exact, lower case
		{"crypto", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAccountKind(tt.input)
			if tt.err {
				if err == nil {
					t.Fatalf("ParseAccountKind(%q) accepted an unknown kind", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAccountKind(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseAccountKind(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}
