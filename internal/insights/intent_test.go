package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectIntent(t *testing.T) {
	tests := []struct {
		question string
		want     Intent
	}{
		{"What were my total sales last month?", IntentSales},
		{"How much revenue did we generate?", IntentSales},
		{"What is our profit margin?", IntentProfit},
		{"How much money did we make?", IntentProfit},
		{"Who is my best rep?", IntentRepPerformance},
		{"Show me the rep leaderboard", IntentRepPerformance},
		{"Which lead source performs best?", IntentLeadSource},
		{"How is our marketing campaign doing?", IntentLeadSource},
		{"What is our most popular vehicle?", IntentVehicle},
		{"Which car brand moves fastest?", IntentVehicle},
		{"WHO IS MY BEST REP?", IntentRepPerformance},
		{"tell me a joke", IntentUnrecognized},
		{"what is the weather today", IntentUnrecognized},
		{"", IntentUnrecognized},
		{"   ", IntentUnrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectIntent(tt.question))
		})
	}
}

func TestDetectIntent_KeywordPrecedence(t *testing.T) {
	// Sales keywords win over profit keywords when both appear.
	assert.Equal(t, IntentSales, DetectIntent("How do sales relate to profit?"))
}

func TestParseIntent(t *testing.T) {
	tests := []struct {
		in   string
		want Intent
	}{
		{"", IntentGeneral},
		{"general", IntentGeneral},
		{"general_analysis", IntentGeneral},
		{"sales", IntentSales},
		{"sales_analysis", IntentSales},
		{"profit", IntentProfit},
		{"profit_analysis", IntentProfit},
		{"rep_performance", IntentRepPerformance},
		{"lead_source_analysis", IntentLeadSource},
		{"vehicle_analysis", IntentVehicle},
		{"something_else", IntentGeneral},
	}

	for _, tt := range tests {
		name := tt.in
		if name == "" {
			name = "empty"
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIntent(tt.in))
		})
	}
}

func TestParseIntent_NeverUnrecognized(t *testing.T) {
	// ParseIntent handles explicit analyze requests; only free-form
	// questions can be unrecognized.
	for _, in := range []string{"", "bogus", "unrecognized"} {
		assert.NotEqual(t, IntentUnrecognized, ParseIntent(in))
	}
}

func TestIntentString(t *testing.T) {
	assert.Equal(t, "general_analysis", IntentGeneral.String())
	assert.Equal(t, "rep_performance", IntentRepPerformance.String())
	assert.Equal(t, "unrecognized", IntentUnrecognized.String())
}
