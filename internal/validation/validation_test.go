package validation

import (
	"testing"
)

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"hello", 10, "hello"},
		{"  hello  ", 10, "hello"},
		{"hello world", 5, "hello"},
		{"with\x00null", 20, "withnull"},
		{"", 10, ""},
	}

	for _, tc := range tests {
		result := SanitizeString(tc.input, tc.maxLen)
		if result != tc.expected {
			t.Errorf("SanitizeString(%q, %d) = %q, want %q", tc.input, tc.maxLen, result, tc.expected)
		}
	}
}

func TestValidAmount(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"1", true},
		{"0.5", true},
		{"0.00000000000000000000000000000000001", true},
		{"", true}, // use Required for required fields

		{"0", false},
		{"0.0", false},
		{"-1", false},
		{"1.2.3", false},
		{".5", false},
		{"5.", false},
		{"abc", false},
	}

	for _, tc := range tests {
		err := ValidAmount("amount", tc.value)()
		if (err == nil) != tc.valid {
			t.Errorf("ValidAmount(%q) error = %v, want valid=%v", tc.value, err, tc.valid)
		}
	}
}

func TestRequired(t *testing.T) {
	if err := Required("name", "")(); err == nil {
		t.Error("Required should reject empty string")
	}
	if err := Required("name", "   ")(); err == nil {
		t.Error("Required should reject whitespace-only string")
	}
	if err := Required("name", "doof")(); err != nil {
		t.Errorf("Required rejected valid value: %v", err)
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	errs := Validate(
		Required("from_id", ""),
		ValidAmount("amount", "bogus"),
		MaxLength("reference", "ok", 100),
	)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
	if errs.Error() == "" {
		t.Error("expected non-empty error string")
	}
}
