package patterns

import "strings"

// IsDevelopment reports whether env names the development environment.
func IsDevelopment(env string) bool {
	return env == Development
}

// IsProduction reports whether env names the production environment.
func IsProduction(env string) bool {
	return env == Production
}

// ParseCSV splits a comma-separated value, trimming items and dropping
// empty ones.
func ParseCSV(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// EnsureProtocol prefixes url with protocol:// unless it already has a scheme.
// An empty protocol means https.
func EnsureProtocol(url, protocol string) string {
	if strings.Contains(url, "://") {
		return url
	}
	if protocol == "" {
		protocol = "https"
	}
	return protocol + "://" + url
}

func joinCSV(items []string) string {
	return strings.Join(items, ",")
}
