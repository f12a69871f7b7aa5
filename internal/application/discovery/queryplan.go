package discovery

import "fmt"

// maxDevCodeQueries bounds the per-identifier queries appended to the fixed
// template set, capping external call volume.
const maxDevCodeQueries = 3

// filingYears are the plausible international filing years probed by the
// fixed query templates.
var filingYears = []string{"WO2019", "WO2020", "WO2021"}

// largeFilers are pharmaceutical organizations with high BR filing volume,
// combined with the molecule name to surface assignee-specific coverage.
var largeFilers = []string{"Orion Corporation", "Bayer"}

// PlanQueries derives the ordered search query list for a molecule.  It is a
// pure function of its inputs; the order is significant because it is the
// scan order of the web search stage and therefore decides which duplicate
// of a family identifier is kept downstream.
func PlanQueries(molecule string, devCodes []string) []string {
	queries := make([]string, 0, len(filingYears)+len(largeFilers)+maxDevCodeQueries)

	for _, year := range filingYears {
		queries = append(queries, fmt.Sprintf("%s patent %s", molecule, year))
	}
	for _, filer := range largeFilers {
		queries = append(queries, fmt.Sprintf("%s %s patent", molecule, filer))
	}

	for i, code := range devCodes {
		if i >= maxDevCodeQueries {
			break
		}
		queries = append(queries, fmt.Sprintf("%s patent WO", code))
	}

	return queries
}
