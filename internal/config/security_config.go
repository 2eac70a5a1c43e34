package config

import "time"

type Security struct{}

var _ SecurityConfig = Security{}

// GetEnableRateLimiting turns on failed-login throttling. Off by default so the
// login endpoint only ever answers with the documented codes.
func (Security) GetEnableRateLimiting() bool {
	return GetBoolEnv("ENABLE_RATE_LIMITING", false)
}

func (Security) GetMaxLoginAttempts() int {
	return GetIntEnv("MAX_LOGIN_ATTEMPTS", 5)
}

func (Security) GetLoginLockoutWindow() time.Duration {
	return GetDurationEnv("LOGIN_LOCKOUT_WINDOW", 15*time.Minute)
}
