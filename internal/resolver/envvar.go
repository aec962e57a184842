package resolver

import "strings"

var envVarReplacer = strings.NewReplacer(".", "_", "-", "_")

// PathToEnvVar converts a schema key to an environment variable name.
// e.g., "db.url" -> "DB_URL", "log-level" -> "LOG_LEVEL", "PORT" -> "PORT"
func PathToEnvVar(path string) string {
	if path == "" {
		return ""
	}
	return strings.ToUpper(envVarReplacer.Replace(path))
}

// IsValidEnvVar reports whether name is a portable environment variable
// name: letters, digits and underscores, not starting with a digit.
func IsValidEnvVar(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
