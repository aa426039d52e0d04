package services

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	reLetters = regexp.MustCompile(`\pL`)
	// Only allow digits, spaces, +, -, (, ), .
	reAllowed = regexp.MustCompile(`^[0-9+\-\s\(\)\.]+$`)
	// E.164-ish: + followed by 8..15 digits (no leading 0 after +)
	reE164 = regexp.MustCompile(`^\+[1-9][0-9]{7,14}$`)
)

// NormPhone normalizes a guardian phone number to +E.164 using country as
// the default calling code (e.g. "55"). Returns "" when the input cannot be
// a phone number.
// Rules: strip separators; 00.. -> +..; <cc>.. long enough -> +<cc>..; 0.. -> +<cc>..; ensure leading +
func NormPhone(p, country string) string {
	s := strings.TrimSpace(p)

	if s == "" {
		return ""
	}
	if reLetters.MatchString(s) {
		return ""
	}
	if !reAllowed.MatchString(s) {
		return ""
	}

	// strip separators
	repl := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "", "\t", "")
	s = repl.Replace(s)

	// 00.. -> +..
	if strings.HasPrefix(s, "00") {
		s = "+" + s[2:]
	}
	// <cc>.. (no plus) with a full national number behind it -> +<cc>..
	if country != "" && !strings.HasPrefix(s, "+") && strings.HasPrefix(s, country) && len(s) > 11 {
		s = "+" + s
	}
	// 0.. (trunk prefix) -> +<cc>..
	if strings.HasPrefix(s, "0") {
		s = "+" + country + s[1:]
	}
	// bare national number
	if !strings.HasPrefix(s, "+") {
		s = "+" + country + s
	}
	if !reE164.MatchString(s) {
		return ""
	}
	return s
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SamePhone reports whether two numbers as typed by people refer to the same line.
// It compares normalized forms first, then falls back to the national part
// so "(11) 98765-4321" matches "+55 11 98765 4321".
func SamePhone(a, b, country string) bool {
	na, nb := NormPhone(a, country), NormPhone(b, country)
	if na != "" && na == nb {
		return true
	}
	da, db := digitsOnly(a), digitsOnly(b)
	if da == "" || db == "" {
		return false
	}
	national := func(d string) string {
		d = strings.TrimLeft(d, "0")
		if country != "" && len(d) > 11 {
			d = strings.TrimPrefix(d, country)
		}
		return d
	}
	return national(da) == national(db)
}
