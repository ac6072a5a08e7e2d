package scheduler

import "time"

// LocalTime is a wall-clock snapshot in some timezone. Weekday is a 0-6
// index with Sunday = 0.
type LocalTime struct {
	Hour    int
	Minute  int
	Weekday int
}

// ResolveLocalTime converts an instant to wall-clock time in the named IANA
// zone. The second return value is false when the zone name is empty or not
// recognized; callers treat that as "skip", never as fatal.
func ResolveLocalTime(timezone string, at time.Time) (LocalTime, bool) {
	if timezone == "" {
		return LocalTime{}, false
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return LocalTime{}, false
	}

	local := at.In(loc)
	return LocalTime{
		Hour:    local.Hour(),
		Minute:  local.Minute(),
		Weekday: int(local.Weekday()),
	}, true
}
