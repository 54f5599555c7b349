package utils

// FirstNonEmpty returns the first string that is not empty, or "" when all
// candidates are empty.
func FirstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}
