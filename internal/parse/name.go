package parse

import (
	"regexp"
	"strings"
)

var spaceRe = regexp.MustCompile(`\s+`)

// PropertyName joins a building name and a unit into a listing name, e.g.
// "가나빌" and "101호" give "가나빌 101호". Either part may be empty.
func PropertyName(building, unit string) string {
	building = strings.TrimSpace(building)
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return building
	}
	return strings.TrimSpace(building + " " + unit)
}

// Header normalizes a spreadsheet header cell: byte order mark, quotes and
// surrounding or repeated whitespace are removed.
func Header(raw string) string {
	s := strings.TrimPrefix(raw, "\ufeff")
	s = strings.ReplaceAll(s, `"`, "")
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
