package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	portEnvVar      = "PORT"
	appNameVar      = "APP_NAME"
	apiPrefixEnvVar = "API_PREFIX"
	dataFileEnvVar  = "DATA_FILE"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "3100")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Admin Mock Server")
}

// GetAPIPrefix is the path prefix every backend route is mounted under.
func (EnvVars) GetAPIPrefix() string {
	prefix := GetEnv(apiPrefixEnvVar, "/api")
	return strings.TrimSuffix(prefix, "/")
}

// GetDataFile is the JSON user database used by the mock backend.
// An empty value keeps the database in memory only.
func (EnvVars) GetDataFile() string {
	return os.Getenv(dataFileEnvVar)
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetIntEnv(envVar string, defaultValue int) int {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		log.Warn().Str("var", envVar).Str("value", value).Msg("Ignoring non-integer environment value")
		return defaultValue
	}
	return i
}

func GetBoolEnv(envVar string, defaultValue bool) bool {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Warn().Str("var", envVar).Str("value", value).Msg("Ignoring non-boolean environment value")
		return defaultValue
	}
	return b
}

// GetDurationEnv accepts Go duration strings such as "90s" or "720h".
func GetDurationEnv(envVar string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Warn().Str("var", envVar).Str("value", value).Msg("Ignoring invalid duration environment value")
		return defaultValue
	}
	return d
}
