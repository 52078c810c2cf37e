// AngelaMos | 2026
// policy_test.go

package password

import (
	"slices"
	"testing"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		pw   string
		want Strength
	}{
		{"empty", "", Weak},
		{"short lowercase", "abc", Weak},
		{"long lowercase", "abcdefgh", Weak},
		{"mixed case short", "Abc1", Medium},
		{"three classes at eight", "Abcdefg1", Medium},
		{"all classes at eight", "Abcdef1!", Strong},
		{"all classes at twelve", "Abcdefghij1!", Strong},
		{"long digits only", "123456789012", Medium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.pw); got != tt.want {
				t.Errorf("Score(%q) = %q, want %q (points %d)",
					tt.pw, got, tt.want, Points(tt.pw))
			}
		})
	}
}

func TestPointsBounds(t *testing.T) {
	if got := Points(""); got != 0 {
		t.Errorf("Points(\"\") = %d, want 0", got)
	}
	if got := Points("Abcdefghij1!"); got != 6 {
		t.Errorf("Points(all rules) = %d, want 6", got)
	}
}

func TestScoreIsMonotonic(t *testing.T) {
	base := "a"
	prev := Points(base)

	for _, suffix := range []string{"bcdefgh", "A", "1", "!", "xyz"} {
		base += suffix
		got := Points(base)
		if got < prev {
			t.Fatalf("Points(%q) = %d dropped below %d", base, got, prev)
		}
		prev = got
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		pw   string
		want []string
	}{
		{
			name: "valid",
			pw:   "Secur3Pass!",
			want: nil,
		},
		{
			name: "empty violates everything",
			pw:   "",
			want: []string{
				MsgTooShort,
				MsgNoUppercase,
				MsgNoLowercase,
				MsgNoDigit,
				MsgNoSpecial,
			},
		},
		{
			name: "missing special",
			pw:   "Password1",
			want: []string{MsgNoSpecial},
		},
		{
			name: "short but complete",
			pw:   "Ab1!",
			want: []string{MsgTooShort},
		},
		{
			name: "missing upper and digit",
			pw:   "password!",
			want: []string{MsgNoUppercase, MsgNoDigit},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.pw)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Validate(%q) = %v, want %v", tt.pw, got, tt.want)
			}
		})
	}
}

func TestValidateCountsRunes(t *testing.T) {
	// seven runes, more than eight bytes
	pw := "Ääää1!b"
	if !slices.Contains(Validate(pw), MsgTooShort) {
		t.Errorf("Validate(%q) should report too short", pw)
	}
}
