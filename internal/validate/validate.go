package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reQ     = regexp.MustCompile(`^[A-Za-z0-9 _'\\.-]{1,50}$`)
	reSKU   = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)
	rePhone = regexp.MustCompile(`^[0-9+()\- ]{1,50}$`)
)

// Email validates a required address.
func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 100 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// OptionalEmail accepts the empty string.
func OptionalEmail(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	return Email(s)
}

// OptionalPhone accepts the empty string or a loosely formatted number.
func OptionalPhone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	return s, rePhone.MatchString(s)
}

// Name validates a displayable name (products, suppliers, customers).
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 100 {
		return "", false
	}
	return s, true
}

// Text trims free text and enforces a max length; empty is allowed.
func Text(s string, max int) (string, bool) {
	s = strings.TrimSpace(s)
	return s, len(s) <= max
}

func SKU(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reSKU.MatchString(s)
}

// Q validates a search query: trims, enforces allowed characters and max length
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if len(s) > 50 {
		s = s[:50]
	}
	return s, reQ.MatchString(s)
}

// ID parses a positive numeric resource id.
func ID(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Date parses a calendar day in YYYY-MM-DD.
func Date(s string) (time.Time, bool) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Paging clamps skip/limit query values: skip >= 0, 1 <= limit <= 500,
// limit defaults to 100.
func Paging(skipStr, limitStr string) (skip, limit int) {
	skip, err := strconv.Atoi(strings.TrimSpace(skipStr))
	if err != nil || skip < 0 {
		skip = 0
	}
	limit, err = strconv.Atoi(strings.TrimSpace(limitStr))
	if err != nil || limit < 1 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	return skip, limit
}
