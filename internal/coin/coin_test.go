package coin

import (
	"testing"
)

func TestParse_ValidAmounts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"whole", "100", "100"},
		{"fraction", "0.5", "0.5"},
		{"mining tick", "0.00000000000000000000000000000000001", "0.00000000000000000000000000000000001"},
		{"large", "99999999999999999999999999.999999", "99999999999999999999999999.999999"},
		{"leading zeros", "007.50", "7.5"},
		{"zero", "0", "0"},
		{"empty is zero", "", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input)
			if !ok {
				t.Fatalf("Parse(%q) returned ok=false", tt.input)
			}
			if got.String() != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got.String(), tt.want)
			}
		})
	}
}

func TestParse_InvalidAmounts(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"negative", "-1"},
		{"negative fraction", "-0.001"},
		{"not a number", "doof"},
		{"two dots", "1.2.3"},
		{"exponent", "1e-35"},
		{"capital exponent", "1E10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := Parse(tt.input); ok {
				t.Errorf("Parse(%q) = ok, want invalid", tt.input)
			}
		})
	}
}

func TestPercent_Exact(t *testing.T) {
	balance := MustParse("0.00000000000000000000000000000000005")
	got := Percent(balance, MustParse("0.2"))
	want := "0.00000000000000000000000000000000001"
	if got.String() != want {
		t.Errorf("Percent = %s, want %s", got.String(), want)
	}
}

func TestFormat_NoExponent(t *testing.T) {
	d := MustParse("0.00000000000000000000000000000000001")
	s := Format(d)
	for _, c := range s {
		if c == 'e' || c == 'E' {
			t.Fatalf("Format produced exponent notation: %s", s)
		}
	}
}

func TestMustParse_PanicsOnInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse did not panic on invalid input")
		}
	}()
	MustParse("-5")
}
