// AngelaMos | 2026
// policy.go

// Package password scores candidate passwords and checks them against the
// storefront's composition rules. Everything here is pure.
package password

import "unicode/utf8"

type Strength string

const (
	Weak   Strength = "weak"
	Medium Strength = "medium"
	Strong Strength = "strong"
)

const (
	MinLength    = 8
	StrongLength = 12
)

const (
	MsgTooShort    = "password must be at least 8 characters long"
	MsgNoUppercase = "password must contain at least one uppercase letter"
	MsgNoLowercase = "password must contain at least one lowercase letter"
	MsgNoDigit     = "password must contain at least one digit"
	MsgNoSpecial   = "password must contain at least one special character"
)

type classes struct {
	upper   bool
	lower   bool
	digit   bool
	special bool
}

func classify(pw string) classes {
	var c classes
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			c.upper = true
		case r >= 'a' && r <= 'z':
			c.lower = true
		case r >= '0' && r <= '9':
			c.digit = true
		default:
			c.special = true
		}
	}
	return c
}

// Score is a monotonic heuristic, not an entropy estimate.
func Score(pw string) Strength {
	points := Points(pw)

	switch {
	case points <= 2:
		return Weak
	case points <= 4:
		return Medium
	default:
		return Strong
	}
}

// Points returns the raw 0..6 score behind Score.
func Points(pw string) int {
	n := utf8.RuneCountInString(pw)
	c := classify(pw)

	points := 0
	if n >= MinLength {
		points++
	}
	if n >= StrongLength {
		points++
	}
	for _, ok := range []bool{c.upper, c.lower, c.digit, c.special} {
		if ok {
			points++
		}
	}
	return points
}

// Validate returns one message per violated rule; nil means the password is
// acceptable.
func Validate(pw string) []string {
	var violations []string
	c := classify(pw)

	if utf8.RuneCountInString(pw) < MinLength {
		violations = append(violations, MsgTooShort)
	}
	if !c.upper {
		violations = append(violations, MsgNoUppercase)
	}
	if !c.lower {
		violations = append(violations, MsgNoLowercase)
	}
	if !c.digit {
		violations = append(violations, MsgNoDigit)
	}
	if !c.special {
		violations = append(violations, MsgNoSpecial)
	}

	return violations
}
