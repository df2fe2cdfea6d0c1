package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	rePhone = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reSize  = regexp.MustCompile(`^[A-Za-z0-9 .\-]{1,20}$`)
)

// Phone validates a storefront phone number: optional +, 10-15 digits.
// Spaces and dashes are stripped before matching.
func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer(" ", "", "-", "").Replace(s)
	if s == "" {
		return "", false
	}
	return s, rePhone.MatchString(s)
}

// Password enforces a length window only; wholesale buyers log in from
// feature phones, so no composition rules.
func Password(s string) bool {
	return len(s) >= 6 && len(s) <= 72
}

// ID validates a simple resource identifier (kurti/category/line ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// SizeLabel validates a requested size label ("XL", "40", "Free Size").
func SizeLabel(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reSize.MatchString(s)
}

// Page parses skip/take query values with defaults and a take ceiling.
func Page(skipStr, takeStr string) (skip, take int) {
	skip, _ = strconv.Atoi(strings.TrimSpace(skipStr))
	if skip < 0 {
		skip = 0
	}
	take, err := strconv.Atoi(strings.TrimSpace(takeStr))
	if err != nil || take <= 0 {
		take = 20
	}
	if take > 100 {
		take = 100
	}
	return skip, take
}

// Name validates a displayable customer name; blank is allowed.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) > 50 {
		return "", false
	}
	return s, true
}
