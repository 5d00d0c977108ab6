package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"cloud.google.com/go/civil"

	"moneymapper/internal/domain"
)

var monthNames = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5, "june": 6,
	"july": 7, "august": 8, "september": 9, "october": 10, "november": 11, "december": 12,
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "jun": 6, "jul": 7, "aug": 8,
	"sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// maxPeriodDays bounds a plausible statement period. Candidate ranges longer
// than this are header noise, not a real period.
const maxPeriodDays = 40

// ExtractPeriod scans document text with the configured period regexes and
// returns the first candidate that forms a plausible statement period.
//
// Three capture layouts are recognized, mirroring the statement header styles
// the regexes target:
//   - 6 groups, month names: "July 27[, 2024] - August 26, 2025"
//   - 6 groups, numeric: "07/27/2024 to 08/26/2024"
//   - 5 groups: "Account # ... July 27 - August 26, 2025"
//
// A start year omitted from the text is inferred from the end year, rolling
// back one year when the start month is after the end month.
func ExtractPeriod(text string, patterns []*regexp.Regexp) (domain.StatementPeriod, bool) {
	for _, re := range patterns {
		for _, match := range re.FindAllStringSubmatch(text, -1) {
			groups := match[1:]
			var period domain.StatementPeriod
			var ok bool
			switch len(groups) {
			case 6:
				if isAlpha(groups[0]) {
					period, ok = fromMonthNames(groups)
				} else {
					period, ok = fromNumeric(groups)
				}
			case 5:
				period, ok = fromHeader(groups)
			}
			if ok && plausible(period) {
				return period, true
			}
		}
	}
	return domain.StatementPeriod{}, false
}

func fromMonthNames(g []string) (domain.StatementPeriod, bool) {
	startMonth, ok1 := monthNames[strings.ToLower(g[0])]
	endMonth, ok2 := monthNames[strings.ToLower(g[3])]
	if !ok1 || !ok2 {
		return domain.StatementPeriod{}, false
	}
	startDay, endDay := atoi(g[1]), atoi(g[4])
	endYear := atoi(g[5])

	startYear := atoi(g[2])
	if startYear == 0 {
		startYear = endYear
		if startMonth > endMonth {
			startYear = endYear - 1
		}
	}
	return makePeriod(startYear, startMonth, startDay, endYear, endMonth, endDay)
}

func fromNumeric(g []string) (domain.StatementPeriod, bool) {
	startYear, endYear := expandYear(atoi(g[2])), expandYear(atoi(g[5]))
	return makePeriod(startYear, atoi(g[0]), atoi(g[1]), endYear, atoi(g[3]), atoi(g[4]))
}

func fromHeader(g []string) (domain.StatementPeriod, bool) {
	startMonth, ok1 := monthNames[strings.ToLower(g[0])]
	endMonth, ok2 := monthNames[strings.ToLower(g[2])]
	if !ok1 || !ok2 {
		return domain.StatementPeriod{}, false
	}
	year := atoi(g[4])
	startYear := year
	if startMonth > endMonth {
		startYear = year - 1
	}
	return makePeriod(startYear, startMonth, atoi(g[1]), year, endMonth, atoi(g[3]))
}

func makePeriod(sy, sm, sd, ey, em, ed int) (domain.StatementPeriod, bool) {
	start := civil.Date{Year: sy, Month: timeMonth(sm), Day: sd}
	end := civil.Date{Year: ey, Month: timeMonth(em), Day: ed}
	if !start.IsValid() || !end.IsValid() {
		return domain.StatementPeriod{}, false
	}
	return domain.StatementPeriod{Start: start, End: end}, true
}

func plausible(p domain.StatementPeriod) bool {
	if p.Start.Year < 2020 || p.End.Year > 2030 {
		return false
	}
	if p.End.Before(p.Start) {
		return false
	}
	return p.End.DaysSince(p.Start) <= maxPeriodDays
}

func expandYear(y int) int {
	if y < 100 {
		return y + 2000
	}
	return y
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

func timeMonth(m int) time.Month { return time.Month(m) }
