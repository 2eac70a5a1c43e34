package config

import "time"

type Client struct{}

var _ ClientConfig = Client{}

func (Client) GetAPIBaseURL() string {
	return GetEnv("API_BASE_URL", "http://localhost:3100/api")
}

func (Client) GetRequestTimeout() time.Duration {
	return GetDurationEnv("REQUEST_TIMEOUT", 10*time.Second)
}

// GetRefreshTimeout bounds the single refresh call made by the driving request.
func (Client) GetRefreshTimeout() time.Duration {
	return GetDurationEnv("REFRESH_TIMEOUT", 10*time.Second)
}

// GetRefreshWaitTimeout bounds how long a queued request waits for a refresh to settle.
func (Client) GetRefreshWaitTimeout() time.Duration {
	return GetDurationEnv("REFRESH_WAIT_TIMEOUT", 30*time.Second)
}

func (Client) GetStoragePrefix() string {
	return GetEnv("STORAGE_PREFIX", "admin-dashboard:")
}

func (Client) GetStorageFile() string {
	return GetEnv("STORAGE_FILE", "./data/client-state.json")
}

// GetValkeyAddr selects the valkey storage backend when set (host:port).
func (Client) GetValkeyAddr() string {
	return GetEnv("VALKEY_ADDR", "")
}
