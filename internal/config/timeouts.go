package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	InstanceWait      time.Duration // Maximum wait for one instance to reach a usable state
	DeleteWait        time.Duration // Maximum wait for one instance deletion to be acknowledged
	SeedWait          time.Duration // Maximum wait for the dump load into the primary
	PollInitialDelay  time.Duration // First polling interval
	PollMaxDelay      time.Duration // Polling interval backoff ceiling
	RetryMaxAttempts  int           // Maximum number of retry attempts for transient API errors
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - AURA_TIMEOUT_INSTANCE_WAIT (default: 15m)
//   - AURA_TIMEOUT_DELETE_WAIT (default: 5m)
//   - AURA_TIMEOUT_SEED_WAIT (default: 30m)
//   - AURA_POLL_INITIAL_DELAY (default: 5s)
//   - AURA_POLL_MAX_DELAY (default: 30s)
//   - AURA_RETRY_MAX_ATTEMPTS (default: 5)
//   - AURA_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		InstanceWait:      parseDuration("AURA_TIMEOUT_INSTANCE_WAIT", 15*time.Minute),
		DeleteWait:        parseDuration("AURA_TIMEOUT_DELETE_WAIT", 5*time.Minute),
		SeedWait:          parseDuration("AURA_TIMEOUT_SEED_WAIT", 30*time.Minute),
		PollInitialDelay:  parseDuration("AURA_POLL_INITIAL_DELAY", 5*time.Second),
		PollMaxDelay:      parseDuration("AURA_POLL_MAX_DELAY", 30*time.Second),
		RetryMaxAttempts:  parseInt("AURA_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("AURA_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
