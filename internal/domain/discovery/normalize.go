package discovery

import (
	"fmt"
	"regexp"
	"strings"
)

// familyIDPattern matches a jurisdiction-prefixed family identifier inside
// free text: "WO", an optional separator, a 4-digit year, an optional
// separator, and a 6-digit serial.  Tolerant of case and the separator
// variants seen in search snippets ("WO 2020 123456", "WO2020/123456").
var familyIDPattern = regexp.MustCompile(`(?i)WO[\s-]?(\d{4})[\s/]?(\d{6})`)

// ExtractFamilyIDs scans free text for family identifiers and returns them
// in canonical "WO<year><serial>" form, first occurrence first, without
// duplicates against the seen set.  The seen set is updated in place so a
// caller can accumulate across many text fragments.
func ExtractFamilyIDs(text string, seen map[string]bool) []string {
	var found []string
	for _, m := range familyIDPattern.FindAllStringSubmatch(text, -1) {
		id := fmt.Sprintf("WO%s%s", m[1], m[2])
		if !seen[id] {
			seen[id] = true
			found = append(found, id)
		}
	}
	return found
}

// NormalizeDocID reduces a document identifier or title to its dedup form:
// whitespace and hyphens stripped, uppercased.  "BR 10 2020 001234" and
// "br-10-2020-001234" normalize to the same key.
func NormalizeDocID(s string) string {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\t", "")
	s = strings.ReplaceAll(s, "-", "")
	return strings.ToUpper(s)
}
