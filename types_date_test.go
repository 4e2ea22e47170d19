package networth

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input    string
		expected Date
		err      bool
	}{
		{"2025-01-15", NewDate(2025, time.January, 15), false},
		// single-digit month and day are accepted
		{"2025-7-1", NewDate(2025, time.July, 1), false},
		{"invalid-date", Date{}, true},
		{"15-01-2025", Date{}, true},
		{"", Date{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.err {
				if err == nil {
					t.Fatalf("ParseDate(%q) accepted an invalid date", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDateString(t *testing.T) {
	// single-digit components render zero padded
	if got := NewDate(2025, time.July, 1).String(); got != "2025-07-01" {
		t.Errorf("String() = %q, want 2025-07-01", got)
	}
}

func TestDateOrdering(t *testing.T) {
	early := NewDate(2025, time.February, 14)
	late := NewDate(2025, time.February, 25)

	if !early.Before(late) || early.After(late) {
		t.Errorf("%s must order before %s", early, late)
	}
	if late.Before(early) || !late.After(early) {
		t.Errorf("%s must order after %s", late, early)
	}
	same := NewDate(2025, time.February, 14)
	if early.Before(same) || early.After(same) {
		t.Error("equal dates must order neither before nor after")
	}
	if !(Date{}).IsZero() || early.IsZero() {
		t.Error("IsZero() must hold for the zero date only")
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	in := NewDate(2025, time.February, 14)
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(data) != `"2025-02-14"` {
		t.Errorf("Marshal() = %s", data)
	}
	var out Date
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if out != in {
		t.Errorf("round trip changed the date: %s != %s", out, in)
	}
	if err := json.Unmarshal([]byte(`"14 feb"`), &out); err == nil {
		t.Error("Unmarshal() accepted an invalid date")
	}
}
