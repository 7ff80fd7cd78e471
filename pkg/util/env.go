package util

import (
	"os"
	"strconv"
)

// GetEnvOrDefault returns the environment variable value if set, otherwise the default value
func GetEnvOrDefault(env, def string) string {
	if val := os.Getenv(env); val != "" {
		return val
	}
	return def
}

// GetEnvBool returns the environment variable parsed as a bool, or def when
// unset or unparsable.
func GetEnvBool(env string, def bool) bool {
	val := os.Getenv(env)
	if val == "" {
		return def
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return parsed
}
