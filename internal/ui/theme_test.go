package ui

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "[----------]", ProgressBar(0, 10))
	assert.Equal(t, "[######----]", ProgressBar(0.6, 10))
	assert.Equal(t, "[##########]", ProgressBar(1.7, 10))
	assert.Equal(t, "[---]", ProgressBar(-1, 1))
}

func TestPercentAndPoints(t *testing.T) {
	assert.Equal(t, "60%", Percent(0.6))
	assert.Equal(t, "100%", Percent(1))
	assert.Equal(t, "16.4", Points(decimal.RequireFromString("16.40")))
	assert.Equal(t, "17", Points(decimal.RequireFromString("17.000")))
}
