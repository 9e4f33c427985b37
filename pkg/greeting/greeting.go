package greeting

import (
	"fmt"
	"time"
)

// Welcome is the fixed body served by the static greeting endpoint.
const Welcome = "Hey, Welcome to spring boot application.!"

// Period is a segment of the day used to pick the salutation.
type Period string

const (
	Morning   Period = "Morning"
	Afternoon Period = "Afternoon"
	Evening   Period = "Evening"
	Night     Period = "Night"
)

// boundary is a half-open [start, end) window measured from midnight.
type boundary struct {
	period     Period
	start, end time.Duration
}

// Evaluated in order; anything left over is Night.
var boundaries = [...]boundary{
	{Morning, 0, 12 * time.Hour},
	{Afternoon, 12 * time.Hour, 16 * time.Hour},
	{Evening, 16 * time.Hour, 21 * time.Hour},
}

// Classify returns the period containing the time of day of now.
func Classify(now time.Time) Period {
	offset := sinceMidnight(now)
	for _, b := range boundaries {
		if offset >= b.start && offset < b.end {
			return b.period
		}
	}
	return Night
}

// Format renders now as "It's HH:MM Good <Period>".
func Format(now time.Time) string {
	return fmt.Sprintf("It's %s Good %s", now.Format("15:04"), Classify(now))
}

// Static returns the welcome message.
func Static() string {
	return Welcome
}

func sinceMidnight(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
}
