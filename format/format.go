// Package format renders display values. All functions are pure.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var ukrainianMonths = [...]string{
	"січня", "лютого", "березня", "квітня", "травня", "червня",
	"липня", "серпня", "вересня", "жовтня", "листопада", "грудня",
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Date formats an ISO 8601 date or timestamp in the Ukrainian long form,
// e.g. "17 жовтня 2026 р.". Input that can't be parsed is returned as is.
func Date(s string) string {
	t, ok := parseDate(strings.TrimSpace(s))
	if !ok {
		return s
	}
	return fmt.Sprintf("%d %s %d р.", t.Day(), ukrainianMonths[t.Month()-1], t.Year())
}

func parseDate(s string) (t time.Time, ok bool) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, true
		}
	}
	return t, false
}

const (
	fullStar  = "★"
	emptyStar = "☆"
	maxStars  = 5
)

// Stars returns five stars, the first floor(rating) of them full.
func Stars(rating float64) string {
	full := int(math.Floor(rating))
	full = max(0, min(full, maxStars))
	return strings.Repeat(fullStar, full) + strings.Repeat(emptyStar, maxStars-full)
}

// Rating formats a rating as stars followed by the value, e.g.
// "★★★★☆ (4.5)".
func Rating(rating float64) string {
	return fmt.Sprintf("%s (%.1f)", Stars(rating), rating)
}

var starStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f1fa8c"))

// RatingStyled is Rating with the stars coloured for a terminal.
func RatingStyled(rating float64) string {
	return fmt.Sprintf("%s (%.1f)", starStyle.Render(Stars(rating)), rating)
}
