package cache

import "strings"

// GenerateKey joins prefix and parts with ':' (series:trade_count).
func GenerateKey(prefix string, parts ...string) string {
	if len(parts) == 0 {
		return prefix
	}
	return prefix + ":" + strings.Join(parts, ":")
}

// BuildPattern matches every key under prefix, for DeleteByPattern.
func BuildPattern(prefix string) string {
	return prefix + ":*"
}
