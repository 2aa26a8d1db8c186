package config

import (
	"os"
	"strconv"
)

// DefaultCheckHour is the local wall-clock hour of the daily birthday sweep.
const DefaultCheckHour = 6

type ScheduleConfig struct {
	CheckHour int
}

func NewScheduleConfig() *ScheduleConfig {
	hour := DefaultCheckHour
	if raw := os.Getenv("ROSTER_CHECK_HOUR"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 && n <= 23 {
			hour = n
		}
	}
	return &ScheduleConfig{CheckHour: hour}
}
