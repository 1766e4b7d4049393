package lrit

import (
	"sort"
	"strings"
)

// ParseAncillary splits ancillary text of the form "Key=Value;Key=Value"
// into a map. Keys and values are trimmed; fragments without '=' are
// ignored. Later duplicates win.
func ParseAncillary(text string) map[string]string {
	m := make(map[string]string)
	for _, part := range strings.Split(text, ";") {
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		m[k] = strings.TrimSpace(strings.TrimRight(v, "\x00"))
	}
	return m
}

// FormatAncillary renders m in the form ParseAncillary reads, with keys
// sorted so output is stable.
func FormatAncillary(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(m[k])
	}
	return b.String()
}
