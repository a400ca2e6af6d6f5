package entities

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseLocation resolves the zone used to decide which calendar day a
// completion belongs to. It accepts IANA names ("Europe/Berlin"), "UTC"/"GMT"
// and fixed offsets such as "UTC+3", "+05:30" or "-7".
func ParseLocation(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	switch strings.ToUpper(tz) {
	case "", "UTC", "GMT", "ETC/UTC":
		return time.UTC, nil
	}

	if loc, err := time.LoadLocation(tz); err == nil {
		return loc, nil
	}

	offset := tz
	if strings.HasPrefix(strings.ToUpper(offset), "UTC") {
		offset = strings.TrimSpace(offset[3:])
	}
	seconds, ok := parseOffset(offset)
	if !ok {
		return nil, fmt.Errorf("unsupported timezone %q", tz)
	}

	sign := '+'
	abs := seconds
	if seconds < 0 {
		sign, abs = '-', -seconds
	}
	return time.FixedZone(fmt.Sprintf("UTC%c%02d:%02d", sign, abs/3600, abs%3600/60), seconds), nil
}

func parseOffset(s string) (int, bool) {
	if len(s) < 2 || (s[0] != '+' && s[0] != '-') {
		return 0, false
	}
	sign := 1
	if s[0] == '-' {
		sign = -1
	}

	hh, mm, found := strings.Cut(s[1:], ":")
	if !found {
		mm = "0"
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 14 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m >= 60 {
		return 0, false
	}

	return sign * (h*3600 + m*60), true
}
