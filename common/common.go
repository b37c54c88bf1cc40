package common

import (
	"strings"
)

// Splits a comma separated string, e.g. "node1, node2,,node3", into its
// non-empty, trimmed elements.
func SplitCommaSep(commaSepString string) []string {
	var out []string
	for _, elem := range strings.Split(commaSepString, ",") {
		if elem = strings.TrimSpace(elem); elem != "" {
			out = append(out, elem)
		}
	}
	return out
}
