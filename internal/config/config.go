package config

import "time"

type Config interface {
	EnvConfig
	CorsConfig
	TokenConfig
	SecurityConfig
	ClientConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetAPIPrefix() string
	GetDataFile() string
	GetEnv() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type TokenConfig interface {
	GetTokenFormat() string
	GetTokenSecret() string
	GetTokenRandomLength() int
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
}

type SecurityConfig interface {
	GetEnableRateLimiting() bool
	GetMaxLoginAttempts() int
	GetLoginLockoutWindow() time.Duration
}

type ClientConfig interface {
	GetAPIBaseURL() string
	GetRequestTimeout() time.Duration
	GetRefreshTimeout() time.Duration
	GetRefreshWaitTimeout() time.Duration
	GetStoragePrefix() string
	GetStorageFile() string
	GetValkeyAddr() string
}

type mainConfig struct {
	EnvVars
	Cors
	Token
	Security
	Client
}

func New() Config {
	return mainConfig{}
}
