package parser

import "strings"

// IsCourseLine reports whether a raw page line looks like a course record.
// A record line starts with its grade in D.DD form; headers, page furniture
// and blank lines do not.
func IsCourseLine(line string) bool {
	return gradePrefixPattern.MatchString(strings.TrimSpace(line))
}
