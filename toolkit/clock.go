package toolkit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/citydesk/citydesk"
)

// timeLayout renders "2026-08-31 14:05:09 EDT-0400": wall-clock time in the
// city's zone with the zone abbreviation and offset, never UTC or host-local.
const timeLayout = "2006-01-02 15:04:05 MST-0700"

// cityZones maps normalized city names to IANA timezone identifiers.
var cityZones = map[string]string{
	"new york": "America/New_York",
}

// CurrentTime returns the get_current_time tool, reading the process clock.
func CurrentTime() citydesk.Tool {
	return currentTime(time.Now)
}

// currentTime builds the tool around an injectable clock for tests.
func currentTime(now func() time.Time) citydesk.Tool {
	return citydesk.Tool{
		Name:        "get_current_time",
		Description: "Returns the current time in a specified city.",
		Parameters:  cityParameters("Name of the city to get the current time for, e.g. New York"),
		Run: func(_ context.Context, args json.RawMessage) citydesk.Envelope {
			return runCurrentTime(now, args)
		},
	}
}

func runCurrentTime(now func() time.Time, args json.RawMessage) citydesk.Envelope {
	city, fail := parseCity(args)
	if fail != nil {
		return *fail
	}
	zone, ok := cityZones[normalize(city)]
	if !ok {
		return citydesk.Failuref("Sorry, I don't have timezone information for %s.", city)
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		// A broken timezone database entry must surface as an envelope,
		// not a fault.
		return citydesk.Failuref("Could not resolve timezone for %s: %s", city, err)
	}
	report := "The current time in " + city + " is " + now().In(loc).Format(timeLayout)
	return citydesk.Success(report)
}
