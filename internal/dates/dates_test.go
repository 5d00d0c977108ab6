package dates

import (
	"regexp"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"moneymapper/internal/domain"
)

func fixedResolver() *Resolver {
	return NewResolverAt(func() time.Time {
		return time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	})
}

func period(sy int, sm time.Month, sd, ey int, em time.Month, ed int) *domain.StatementPeriod {
	return &domain.StatementPeriod{
		Start: civil.Date{Year: sy, Month: sm, Day: sd},
		End:   civil.Date{Year: ey, Month: em, Day: ed},
	}
}

func TestResolve(t *testing.T) {
	crossYear := period(2024, time.December, 1, 2025, time.January, 15)
	sameYear := period(2025, time.June, 1, 2025, time.June, 30)

	tests := []struct {
		name     string
		fragment string
		period   *domain.StatementPeriod
		want     string
	}{
		{"full date", "07/04/2024", nil, "2024-07-04"},
		{"two digit year", "07/04/24", nil, "2024-07-04"},
		{"already iso", "2024-07-04", nil, "2024-07-04"},
		{"partial same-year period", "06/12", sameYear, "2025-06-12"},
		{"partial december before rollover", "12/28", crossYear, "2024-12-28"},
		{"partial january after rollover", "01/05", crossYear, "2025-01-05"},
		{"partial no period falls back to current year", "08/09", nil, "2025-08-09"},
		{"unparsable returned as-is", "yesterday", nil, "yesterday"},
		{"single digit month and day", "3/7/2024", nil, "2024-03-07"},
	}

	r := fixedResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Resolve(tt.fragment, tt.period); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.fragment, got, tt.want)
			}
		})
	}
}

func TestResolve_InvalidPeriodIgnored(t *testing.T) {
	r := fixedResolver()
	backwards := period(2025, time.June, 30, 2025, time.June, 1)
	backwards.End = civil.Date{Year: 2024, Month: time.January, Day: 1}

	if got := r.Resolve("06/12", backwards); got != "2025-06-12" {
		t.Errorf("Resolve with invalid period = %q, want current-year fallback", got)
	}
}

func periodPatterns(t *testing.T) []*regexp.Regexp {
	t.Helper()
	raw := []string{
		`([A-Za-z]+)\s+(\d{1,2})(?:,?\s*(\d{4}))?\s*(?:-|to)+\s*([A-Za-z]+)\s+(\d{1,2}),?\s*(\d{4})`,
		`(\d{1,2})/(\d{1,2})/(\d{2,4})\s*(?:-|to)+\s*(\d{1,2})/(\d{1,2})/(\d{2,4})`,
		`Account\s*#.*?([A-Za-z]+)\s+(\d{1,2})\s*-\s*([A-Za-z]+)\s+(\d{1,2}),?\s*(\d{4})`,
	}
	out := make([]*regexp.Regexp, len(raw))
	for i, p := range raw {
		out[i] = regexp.MustCompile("(?i)" + p)
	}
	return out
}

func TestExtractPeriod(t *testing.T) {
	patterns := periodPatterns(t)

	tests := []struct {
		name      string
		text      string
		wantStart civil.Date
		wantEnd   civil.Date
		wantOK    bool
	}{
		{
			name:      "month names with end year only",
			text:      "Statement period July 27 - August 26, 2025",
			wantStart: civil.Date{Year: 2025, Month: time.July, Day: 27},
			wantEnd:   civil.Date{Year: 2025, Month: time.August, Day: 26},
			wantOK:    true,
		},
		{
			name:      "cross-year month names",
			text:      "December 15 - January 14, 2025",
			wantStart: civil.Date{Year: 2024, Month: time.December, Day: 15},
			wantEnd:   civil.Date{Year: 2025, Month: time.January, Day: 14},
			wantOK:    true,
		},
		{
			name:      "numeric with two-digit years",
			text:      "Statement Period: 01/01/24 - 01/31/24",
			wantStart: civil.Date{Year: 2024, Month: time.January, Day: 1},
			wantEnd:   civil.Date{Year: 2024, Month: time.January, Day: 31},
			wantOK:    true,
		},
		{
			name:   "no period present",
			text:   "No dates to be found here",
			wantOK: false,
		},
		{
			name:   "period too long is rejected",
			text:   "01/01/2024 to 06/30/2024",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractPeriod(tt.text, patterns)
			if ok != tt.wantOK {
				t.Fatalf("ExtractPeriod ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Start != tt.wantStart || got.End != tt.wantEnd {
				t.Errorf("ExtractPeriod = %v..%v, want %v..%v", got.Start, got.End, tt.wantStart, tt.wantEnd)
			}
		})
	}
}
