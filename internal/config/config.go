package config

import (
	"os"
	"strconv"
	"time"

	"github.com/alexanderramin/taskman/internal/planner"
	"github.com/alexanderramin/taskman/internal/timespan"
)

// Config holds the tunables of a TaskMan process.
type Config struct {
	SearchStep          time.Duration
	StartTimeCandidates int
	SearchHorizon       time.Duration
	WorkDay             timespan.WorkDay
	LogUseCases         bool
	Scenario            string // default --file for the CLI
}

// Default returns a Config with sensible defaults.
// Use case logging is disabled by default.
func Default() Config {
	opts := planner.DefaultOptions()
	return Config{
		SearchStep:          opts.Step,
		StartTimeCandidates: opts.Candidates,
		SearchHorizon:       opts.Horizon,
		WorkDay:             timespan.DefaultWorkDay,
	}
}

// Load reads configuration from environment variables, falling back to
// defaults for unset or malformed values.
func Load() Config {
	cfg := Default()

	applyDurationEnv(&cfg.SearchStep, "TASKMAN_SEARCH_STEP")
	applyDurationEnv(&cfg.SearchHorizon, "TASKMAN_SEARCH_HORIZON")
	if v := os.Getenv("TASKMAN_START_TIME_CANDIDATES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.StartTimeCandidates = n
		}
	}
	start, end := os.Getenv("TASKMAN_WORKDAY_START"), os.Getenv("TASKMAN_WORKDAY_END")
	if start != "" || end != "" {
		if start == "" {
			start = "08:00"
		}
		if end == "" {
			end = "16:00"
		}
		if w, err := timespan.ParseWindow(start, end); err == nil {
			cfg.WorkDay = timespan.WorkDay{Window: w}
		}
	}
	if v := os.Getenv("TASKMAN_LOG_USE_CASES"); v != "" {
		cfg.LogUseCases, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("TASKMAN_SCENARIO"); v != "" {
		cfg.Scenario = v
	}

	return cfg
}

// PlannerOptions returns the start time search settings.
func (c Config) PlannerOptions() planner.Options {
	return planner.Options{
		Step:       c.SearchStep,
		Candidates: c.StartTimeCandidates,
		Horizon:    c.SearchHorizon,
	}
}

func applyDurationEnv(dst *time.Duration, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return
	}
	*dst = d
}
