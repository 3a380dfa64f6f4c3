package cache

import "strings"

const (
	GlobalKeyPrefix = "quizmaster"

	generationService = "generation"
	listObject        = "list"
)

// GenerateCacheKey joins the global prefix, service, object type and
// identifier with ":". Extra params are joined by "_" and appended.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// GenerationListKey is where an owner's generation list is cached.
func GenerationListKey(ownerID string) string {
	return GenerateCacheKey(generationService, listObject, ownerID)
}
