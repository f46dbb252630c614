package insights_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/application-tracker/internal/application"
	"jobmate/application-tracker/internal/insights"
)

func TestGroupByDate(t *testing.T) {
	d1 := application.MustParseDate("2024-03-01")
	d2 := application.MustParseDate("2024-03-05")
	records := []application.JobApplication{
		newApp("Old", "r", appliedOn(d1)),
		newApp("NewA", "r", appliedOn(d2)),
		newApp("Old2", "r", appliedOn(d1)),
		newApp("NewB", "r", appliedOn(d2)),
	}

	groups := insights.GroupByDate(records)

	require.Len(t, groups, 2)
	assert.Equal(t, d2, groups[0].Date)
	assert.Equal(t, []string{"NewA", "NewB"}, companies(groups[0].Applications))
	assert.Equal(t, d1, groups[1].Date)
	assert.Equal(t, []string{"Old", "Old2"}, companies(groups[1].Applications))
	assert.Equal(t, "Old", records[0].CompanyName, "input must not be reordered")
}

func TestGroupByDate_Empty(t *testing.T) {
	groups := insights.GroupByDate(nil)

	require.NotNil(t, groups)
	assert.Empty(t, groups)
}
