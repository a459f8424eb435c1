package model

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// runTimePattern matches Slurm's d-hh:mm:ss time limit format.
var runTimePattern = regexp.MustCompile(`^(\d+)-(\d{2}):(\d{2}):(\d{2})$`)

// ParseRunTime parses a Slurm time limit in d-hh:mm:ss form into a duration.
// Hours must be below 24 and minutes/seconds below 60; days are unbounded.
func ParseRunTime(s string) (time.Duration, error) {
	m := runTimePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("parse run time %q: want d-hh:mm:ss", s)
	}

	days, _ := strconv.Atoi(m[1])
	hours, _ := strconv.Atoi(m[2])
	minutes, _ := strconv.Atoi(m[3])
	seconds, _ := strconv.Atoi(m[4])

	if hours > 23 {
		return 0, fmt.Errorf("parse run time %q: hours out of range", s)
	}
	if minutes > 59 || seconds > 59 {
		return 0, fmt.Errorf("parse run time %q: minutes/seconds out of range", s)
	}

	d := time.Duration(days)*24*time.Hour +
		time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second
	return d, nil
}
