package richtext

import (
	"strings"

	"github.com/google/uuid"
)

const keyLength = 5

// GenerateKey returns a short random block key not used by c. c may be nil.
func GenerateKey(c *Content) string {
	return generateUniqueKey(func(key string) bool {
		if c == nil {
			return false
		}
		_, taken := c.index[key]
		return taken
	})
}

func generateUniqueKey(taken func(string) bool) string {
	for {
		key := strings.ReplaceAll(uuid.NewString(), "-", "")[:keyLength]
		if !taken(key) {
			return key
		}
	}
}
