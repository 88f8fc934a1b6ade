package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	GlobalKeyPrefix = "quizgen"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// CompletionKey is the key for a cached raw completion of prompt by the named client.
func CompletionKey(clientName, prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return GenerateCacheKey("llm", "completion", clientName, hex.EncodeToString(sum[:]))
}
