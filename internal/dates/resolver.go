// Package dates resolves statement date fragments to full calendar dates and
// extracts statement periods from document text.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"moneymapper/internal/domain"
)

var (
	partialDate = regexp.MustCompile(`^\d{1,2}/\d{1,2}$`)
	shortDate   = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2})$`)
	fullDate    = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	isoDate     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Resolver turns partial date fragments into ISO dates. The now func exists so
// tests can pin the current-year fallback.
type Resolver struct {
	now func() time.Time
}

func NewResolver() *Resolver {
	return &Resolver{now: time.Now}
}

// NewResolverAt pins the clock used for the no-period fallback.
func NewResolverAt(now func() time.Time) *Resolver {
	return &Resolver{now: now}
}

// Resolve normalizes a date fragment to YYYY-MM-DD.
//
// Full dates convert directly (two-digit years become 20YY). Partial MM/DD
// fragments take the year from the statement period: the period's year when
// both endpoints share one, otherwise end.year-1 when the fragment's month is
// greater than the period's end month (the pre-rollover side of a Dec-Jan
// statement) and end.year when it is not. Without a period the current year
// is a best-effort default. Statements spanning more than one year boundary
// are outside this heuristic's scope.
//
// Resolve is total: fragments it cannot parse are returned unchanged.
func (r *Resolver) Resolve(fragment string, period *domain.StatementPeriod) string {
	if isoDate.MatchString(fragment) {
		return fragment
	}

	if m := fullDate.FindStringSubmatch(fragment); m != nil {
		return isoString(mustInt(m[3]), mustInt(m[1]), mustInt(m[2]))
	}

	if m := shortDate.FindStringSubmatch(fragment); m != nil {
		return isoString(2000+mustInt(m[3]), mustInt(m[1]), mustInt(m[2]))
	}

	if partialDate.MatchString(fragment) {
		var month, day int
		fmt.Sscanf(fragment, "%d/%d", &month, &day)
		return isoString(r.yearFor(month, period), month, day)
	}

	return fragment
}

func (r *Resolver) yearFor(month int, period *domain.StatementPeriod) int {
	if period == nil || !period.Valid() {
		return r.now().Year()
	}
	if period.Start.Year == period.End.Year {
		return period.End.Year
	}
	if month > int(period.End.Month) {
		return period.End.Year - 1
	}
	return period.End.Year
}

func isoString(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

func mustInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
