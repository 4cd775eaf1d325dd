package services

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
)

var slotPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ParseHourOfDay extracts the hour from an HH:MM local-time label.
// Unparseable labels yield 0, matching the planner's lenient handling.
func ParseHourOfDay(hhmm string) int {
	m := slotPattern.FindStringSubmatch(hhmm)
	if m == nil {
		return 0
	}
	hour, _ := strconv.Atoi(m[1])
	if hour > 23 {
		return 0
	}
	return hour
}

// ShiftSlot moves an HH:MM label by offset minutes, wrapping across
// midnight. ok=false when the label is not a time.
func ShiftSlot(hhmm string, offset int) (string, bool) {
	m := slotPattern.FindStringSubmatch(hhmm)
	if m == nil {
		return "", false
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return "", false
	}

	total := (hour*60 + minute + offset) % (24 * 60)
	if total < 0 {
		total += 24 * 60
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60), true
}

// JitterSlot shifts a slot by a random offset in [-15, +15] minutes, used to
// avoid every send landing exactly on the recommended minute.
func JitterSlot(hhmm string, rng *rand.Rand) (string, bool) {
	return ShiftSlot(hhmm, rng.Intn(31)-15)
}
