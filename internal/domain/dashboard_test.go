package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	summary := Summarize(PlaceholderEstimates())

	assert.Equal(t, DashboardSummary{
		Count:        2,
		Completed:    1,
		TotalHarvest: 1109,
		TotalSavings: 16635,
	}, summary)

	assert.Equal(t, DashboardSummary{}, Summarize(nil))
}

func TestEmailLocalPart(t *testing.T) {
	assert.Equal(t, "asha", EmailLocalPart("asha@example.com"))
	assert.Equal(t, "no-at-sign", EmailLocalPart("no-at-sign"))
	assert.Equal(t, "", EmailLocalPart("@example.com"))
}

func TestUser_Valid(t *testing.T) {
	assert.True(t, User{Email: "a@b.c"}.Valid())
	assert.False(t, User{ID: "1", Name: "x"}.Valid())
}
