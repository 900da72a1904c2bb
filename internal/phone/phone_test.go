package phone

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0677123456", "237677123456"},
		{"677123456", "237677123456"},
		{"237677123456", "237677123456"},
		{"+237 677 123 456", "237677123456"},
		{"06 77 12 34 56", "237677123456"},
	}
	for _, c := range cases {
		got, err := Normalize(c.in)
		if err != nil {
			t.Fatalf("Normalize(%q) returned error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "abc", "12"} {
		if _, err := Normalize(in); err == nil {
			t.Errorf("Normalize(%q) should have failed", in)
		}
	}
}

func TestValidateMTNPrefixes(t *testing.T) {
	cases := []struct {
		in    string
		want  string
		valid bool
	}{
		{"0677123456", "237677123456", true},
		{"677123456", "237677123456", true},
		// Short subscriber part, still carries the 67 prefix.
		{"23767712345", "23767712345", true},
		{"0650123456", "237650123456", true},
		{"0681234567", "237681234567", true},
		// Orange prefix, not MTN.
		{"0699123456", "", false},
		{"0691234567", "", false},
	}
	for _, c := range cases {
		got, err := Validate(c.in)
		if c.valid {
			if err != nil {
				t.Errorf("Validate(%q) returned error: %v", c.in, err)
				continue
			}
			if got != c.want {
				t.Errorf("Validate(%q) = %q, want %q", c.in, got, c.want)
			}
		} else if err == nil {
			t.Errorf("Validate(%q) should have been rejected, got %q", c.in, got)
		}
	}
}
