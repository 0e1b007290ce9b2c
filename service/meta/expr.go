package meta

import (
	"os"
	"strings"
)

// ExpandEnv replaces every ${env.KEY} in the input with the value of the
// environment variable KEY (empty when unset).  Anything else, including
// other ${...} expressions, passes through untouched.
func ExpandEnv(value string) string {
	const prefix = "${env."
	idx := strings.Index(value, prefix)
	if idx < 0 {
		return value
	}
	var b strings.Builder
	for idx >= 0 {
		b.WriteString(value[:idx])
		rest := value[idx+len(prefix):]
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			// unterminated expression, keep it literal
			b.WriteString(value[idx:])
			return b.String()
		}
		b.WriteString(os.Getenv(rest[:end]))
		value = rest[end+1:]
		idx = strings.Index(value, prefix)
	}
	b.WriteString(value)
	return b.String()
}
