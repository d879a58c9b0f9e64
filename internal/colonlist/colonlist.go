// Package colonlist handles the colon-separated name lists stored in the
// environment mirror variables.
package colonlist

import "strings"

// Split breaks a colon-separated list into its units, dropping empty
// segments so "a::b:" yields only "a" and "b".
func Split(list string) []string {
	if list == "" {
		return nil
	}
	parts := strings.Split(list, ":")
	out := parts[:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Join builds a colon-separated list, skipping empty names and duplicates
// while preserving first-seen order.
func Join(names []string) string {
	if len(names) == 0 {
		return ""
	}
	seen := make(map[string]struct{}, len(names))
	var b strings.Builder
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if b.Len() > 0 {
			b.WriteByte(':')
		}
		b.WriteString(name)
	}
	return b.String()
}
