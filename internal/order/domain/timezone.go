package domain

import (
	"sync"
	"time"
)

var (
	businessOnce sync.Once
	businessTZ   *time.Location
)

// BusinessLocation is the restaurant's timezone. Delivery dates and the
// "today" query window are interpreted in it no matter where the caller
// runs. Panama has no DST, so the fixed offset fallback is exact when
// tzdata is unavailable.
func BusinessLocation() *time.Location {
	businessOnce.Do(func() {
		loc, err := time.LoadLocation("America/Panama")
		if err != nil {
			loc = time.FixedZone("-05", -5*60*60)
		}
		businessTZ = loc
	})
	return businessTZ
}

// TodayWindow bounds the business day containing now: local midnight to
// local midnight in the restaurant's timezone. An order placed at 19:00 in
// Panama is still "today" even though it is past midnight UTC.
func TodayWindow(now time.Time) (from, to time.Time) {
	local := now.In(BusinessLocation())
	from = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
	return from, from.Add(24 * time.Hour)
}
