package money

import (
	"encoding/json"
	"testing"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Cents
		wantErr bool
	}{
		{name: "integer", input: "12", want: 1200},
		{name: "two decimals", input: "12.34", want: 1234},
		{name: "one decimal", input: "12.3", want: 1230},
		{name: "comma separator", input: "12,34", want: 1234},
		{name: "zero", input: "0", want: 0},
		{name: "zero with decimals", input: "0.00", want: 0},
		{name: "leading dot", input: ".50", want: 50},
		{name: "third decimal rounds half up", input: "1.005", want: 101},
		{name: "third decimal rounds down", input: "1.004", want: 100},
		{name: "extra decimals beyond third ignored", input: "1.0049", want: 100},
		{name: "whitespace trimmed", input: "  7.25  ", want: 725},
		{name: "empty", input: "", wantErr: true},
		{name: "negative", input: "-1.00", wantErr: true},
		{name: "explicit plus", input: "+1.00", wantErr: true},
		{name: "letters", input: "abc", wantErr: true},
		{name: "mixed", input: "12.3a", wantErr: true},
		{name: "two dots", input: "1.2.3", wantErr: true},
		{name: "lone dot", input: ".", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimal(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDecimal(%q) = %d, expected error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDecimal(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDecimal(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestCentsString(t *testing.T) {
	tests := []struct {
		cents Cents
		want  string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{100, "1.00"},
		{60000, "600.00"},
		{123456, "1234.56"},
		{-5000, "-50.00"},
		{-1, "-0.01"},
	}

	for _, tt := range tests {
		if got := tt.cents.String(); got != tt.want {
			t.Errorf("Cents(%d).String() = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestFormatEUR(t *testing.T) {
	if got := Cents(60000).FormatEUR(); got != "600.00 €" {
		t.Errorf("FormatEUR() = %q, want %q", got, "600.00 €")
	}
	if got := Cents(-250).FormatEUR(); got != "-2.50 €" {
		t.Errorf("FormatEUR() = %q, want %q", got, "-2.50 €")
	}
}

func TestCentsJSON(t *testing.T) {
	t.Run("marshals as two-decimal number", func(t *testing.T) {
		out, err := json.Marshal(Cents(1234))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(out) != "12.34" {
			t.Errorf("Marshal = %s, want 12.34", out)
		}
	})

	t.Run("unmarshals a JSON number exactly", func(t *testing.T) {
		var c Cents
		if err := json.Unmarshal([]byte("10.10"), &c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c != 1010 {
			t.Errorf("Unmarshal = %d, want 1010", c)
		}
	})

	t.Run("unmarshals a quoted string", func(t *testing.T) {
		var c Cents
		if err := json.Unmarshal([]byte(`"99.99"`), &c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c != 9999 {
			t.Errorf("Unmarshal = %d, want 9999", c)
		}
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		var c Cents
		if err := json.Unmarshal([]byte("-5.00"), &c); err == nil {
			t.Error("expected error for negative amount")
		}
	})

	t.Run("survives a round trip", func(t *testing.T) {
		// 10.10 is a classic float trap; integer cents keep it exact.
		var c Cents
		if err := json.Unmarshal([]byte("10.10"), &c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out, err := json.Marshal(c)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(out) != "10.10" {
			t.Errorf("round trip = %s, want 10.10", out)
		}
	})
}
