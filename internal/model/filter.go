package model

import (
	"strings"
	"time"
)

// Criteria narrows a transfer list for the dashboard.  An empty Query and a
// zero Date each let every transfer through.
type Criteria struct {
	Query string
	Date  time.Time

	// rawDate keeps a date parameter that failed to parse so that it
	// filters everything out instead of being silently dropped.
	rawDate string
}

// ParseCriteria builds Criteria from the q and date request parameters.
func ParseCriteria(query, date string) Criteria {
	c := Criteria{Query: query}
	date = strings.TrimSpace(date)
	if date == "" {
		return c
	}
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		c.rawDate = date
		return c
	}
	c.Date = d
	return c
}

// HasDate reports whether a date predicate is set.
func (c Criteria) HasDate() bool {
	return !c.Date.IsZero() || c.rawDate != ""
}

// DateParam is the date predicate as it should appear in a URL.
func (c Criteria) DateParam() string {
	if c.rawDate != "" {
		return c.rawDate
	}
	if c.Date.IsZero() {
		return ""
	}
	return c.Date.Format(DateLayout)
}

// Filter returns the transfers matching c in their original order.  The
// query matches case-insensitively as a substring of the flight code, guest
// name or notes; the date matches the calendar day of TransferDate.  A date
// parameter that did not parse matches nothing.
func Filter(records []Transfer, c Criteria) []Transfer {
	out := make([]Transfer, 0, len(records))
	if c.rawDate != "" {
		return out
	}
	query := strings.ToLower(c.Query)
	var day string
	if !c.Date.IsZero() {
		day = c.Date.Format(DateLayout)
	}

	for _, t := range records {
		if query != "" && !matchesQuery(t, query) {
			continue
		}
		if day != "" && !strings.HasPrefix(t.TransferDate, day) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchesQuery(t Transfer, query string) bool {
	if strings.Contains(strings.ToLower(t.FlightCode), query) {
		return true
	}
	if strings.Contains(strings.ToLower(t.GuestName), query) {
		return true
	}
	return t.Notes != "" && strings.Contains(strings.ToLower(t.Notes), query)
}
