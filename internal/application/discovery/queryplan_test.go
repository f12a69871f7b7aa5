package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanQueries_TemplateSet(t *testing.T) {
	queries := PlanQueries("darolutamide", nil)

	assert.Equal(t, []string{
		"darolutamide patent WO2019",
		"darolutamide patent WO2020",
		"darolutamide patent WO2021",
		"darolutamide Orion Corporation patent",
		"darolutamide Bayer patent",
	}, queries)
}

func TestPlanQueries_DevCodesAppendedAndCapped(t *testing.T) {
	queries := PlanQueries("darolutamide", []string{"ODM-201", "BAY-1841788", "ORM16555", "XYZ-999"})

	assert.Len(t, queries, 8)
	assert.Equal(t, "ODM-201 patent WO", queries[5])
	assert.Equal(t, "BAY-1841788 patent WO", queries[6])
	assert.Equal(t, "ORM16555 patent WO", queries[7])
	assert.NotContains(t, queries, "XYZ-999 patent WO")
}
