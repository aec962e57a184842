// Package patterns provides pre-configured validators for common
// environment variables.
package patterns

import (
	"regexp"

	"confex/internal/validator"
)

// Deployment environments accepted by NodeEnv.
const (
	Development = "development"
	Staging     = "staging"
	Production  = "production"
)

// Log levels accepted by LogLevel, most severe first.
var LogLevels = []string{"error", "warn", "info", "debug"}

var (
	urlPattern         = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://[^\s/?#]+\S*$`)
	emailPattern       = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	databaseURLPattern = regexp.MustCompile(`^(postgres|postgresql|mysql|mariadb|sqlserver|mongodb|mongodb\+srv|redis|rediss|sqlite|sqlite3|file)://`)
)

// Port is an integer in 1..65535 defaulting to def.
func Port(def float64) validator.NumberValidator {
	return validator.Number().Min(1).Max(65535).Integer().Default(def)
}

// NodeEnv is one of development, staging or production, defaulting to def.
func NodeEnv(def string) validator.EnumValidator[string] {
	return validator.Enum(Development, Staging, Production).Default(def)
}

// LogLevel is one of error, warn, info or debug, defaulting to def.
func LogLevel(def string) validator.EnumValidator[string] {
	return validator.Enum(LogLevels...).Default(def)
}

// Flag is a boolean defaulting to def.
func Flag(def bool) validator.BooleanValidator {
	return validator.Boolean().Default(def)
}

// URL is a required string with a scheme and a host.
func URL() validator.StringValidator {
	return validator.String().Pattern(urlPattern)
}

// Email is a required string shaped like local@domain.tld.
func Email() validator.StringValidator {
	return validator.String().Pattern(emailPattern)
}

// DatabaseURL is a required connection string using a common database scheme.
func DatabaseURL() validator.StringValidator {
	return validator.String().Pattern(databaseURLPattern)
}

// Secret is a required, non-empty string. It never carries a default.
func Secret() validator.StringValidator {
	return validator.String().MinLength(1)
}

// CSVList is a comma-separated string defaulting to defs joined by commas.
// Use ParseCSV to split the validated value.
func CSVList(defs ...string) validator.StringValidator {
	return validator.String().Default(joinCSV(defs))
}

// Timeout is a non-negative integer number of milliseconds defaulting to defMs.
func Timeout(defMs float64) validator.NumberValidator {
	return validator.Number().Min(0).Integer().Default(defMs)
}
