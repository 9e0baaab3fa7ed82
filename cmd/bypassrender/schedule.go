package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errBadSchedule = errors.New("invalid bypass schedule")

// span is a half-open range of seconds during which the effect is bypassed.
type span struct {
	start, end float64
}

type schedule []span

// parseSchedule reads "start:end[,start:end...]" in seconds. An empty end
// means until the end of the file.
func parseSchedule(s string) (schedule, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var out schedule
	for _, part := range strings.Split(s, ",") {
		startStr, endStr, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q lacks ':'", errBadSchedule, part)
		}
		start, err := strconv.ParseFloat(strings.TrimSpace(startStr), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: start of %q: %w", errBadSchedule, part, err)
		}
		end := -1.0
		if endStr = strings.TrimSpace(endStr); endStr != "" {
			end, err = strconv.ParseFloat(endStr, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: end of %q: %w", errBadSchedule, part, err)
			}
			if end < start {
				return nil, fmt.Errorf("%w: %q ends before it starts", errBadSchedule, part)
			}
		}
		if start < 0 {
			return nil, fmt.Errorf("%w: %q starts before zero", errBadSchedule, part)
		}
		out = append(out, span{start: start, end: end})
	}
	return out, nil
}

// bypassedAt reports whether time t (seconds) falls into a bypass span.
func (s schedule) bypassedAt(t float64) bool {
	for _, sp := range s {
		if t >= sp.start && (sp.end < 0 || t < sp.end) {
			return true
		}
	}
	return false
}
