package config

import (
	"fmt"
	"os"
	"strings"
)

// ExpectedEnvSchemaVersion is bumped whenever .env.example gains or renames keys
const ExpectedEnvSchemaVersion = "1.0"

// RequiredEnvVars must be present in every deployment's environment
var RequiredEnvVars = []string{
	"ENV_SCHEMA_VERSION",
	"PLAY_SERVICE_URL",
}

// DatabaseEnvVars must all be set once DB_HOST selects Postgres
var DatabaseEnvVars = []string{
	"DB_USER",
	"DB_PASSWORD",
	"DB_PORT",
	"DB_NAME",
}

// exampleSecrets are the placeholder values shipped in .env.example
var exampleSecrets = []struct {
	key, value string
	advice     string
}{
	{"DB_PASSWORD", "change_this_secure_password", "please use a secure password"},
	{"PLAY_API_KEY", "generate_with_openssl_rand_hex_32", "generate a secure key with: openssl rand -hex 32"},
}

// ValidateEnv checks that the environment was written for this release and
// carries every required variable
func ValidateEnv() error {
	switch v := os.Getenv("ENV_SCHEMA_VERSION"); v {
	case ExpectedEnvSchemaVersion:
	case "":
		return fmt.Errorf("ENV_SCHEMA_VERSION is not set - please update your .env file to include this field (expected: %s)", ExpectedEnvSchemaVersion)
	default:
		return fmt.Errorf("ENV_SCHEMA_VERSION mismatch: expected %s, got %s - your .env file may be outdated", ExpectedEnvSchemaVersion, v)
	}

	required := RequiredEnvVars
	if os.Getenv("DB_HOST") != "" {
		required = append(append([]string{}, RequiredEnvVars...), DatabaseEnvVars...)
	}

	var missing []string
	for _, key := range required {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateEnvWithWarnings runs ValidateEnv and then lists settings that work
// but probably should not reach production
func ValidateEnvWithWarnings() ([]string, error) {
	if err := ValidateEnv(); err != nil {
		return nil, err
	}

	var warnings []string
	usingDB := os.Getenv("DB_HOST") != ""
	if !usingDB {
		warnings = append(warnings, "DB_HOST is not set - wallet and play history are kept in memory and lost on restart")
	}
	for _, s := range exampleSecrets {
		if s.key == "DB_PASSWORD" && !usingDB {
			continue
		}
		if os.Getenv(s.key) == s.value {
			warnings = append(warnings, fmt.Sprintf("%s appears to be using the example value - %s", s.key, s.advice))
		}
	}
	return warnings, nil
}
