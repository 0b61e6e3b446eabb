package timeutil

import "time"

// Layouts used across the console.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006, 03:04 PM"
)

// IST is Asia/Kolkata, or a fixed +05:30 zone on hosts without tzdata.
var IST = loadIST()

func loadIST() *time.Location {
	if loc, err := time.LoadLocation("Asia/Kolkata"); err == nil {
		return loc
	}
	return time.FixedZone("IST", 5*60*60+30*60)
}

// Clock returns the current instant. Services take one so tests can pin "today".
type Clock func() time.Time

// Now is the production Clock.
func Now() time.Time {
	return time.Now().In(IST)
}

// Fixed returns a Clock stuck at t.
func Fixed(t time.Time) Clock {
	return func() time.Time { return t }
}

// Today is the IST calendar date of t, as recorded on uploads.
func Today(t time.Time) string {
	return t.In(IST).Format(DateLayout)
}

// ParseDate reads a YYYY-MM-DD service date as midnight IST.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, IST)
}

func FormatIST(t time.Time, layout string) string {
	return t.In(IST).Format(layout)
}
