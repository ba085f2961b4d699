package insights

import "strings"

// Intent classifies what a question or analysis request is about.
// IntentUnrecognized is the zero value so an unclassified question can
// never silently pass for a general analysis.
type Intent int

const (
	IntentUnrecognized Intent = iota
	IntentGeneral
	IntentSales
	IntentProfit
	IntentRepPerformance
	IntentLeadSource
	IntentVehicle
)

var intentNames = map[Intent]string{
	IntentUnrecognized:   "unrecognized",
	IntentGeneral:        "general_analysis",
	IntentSales:          "sales_analysis",
	IntentProfit:         "profit_analysis",
	IntentRepPerformance: "rep_performance",
	IntentLeadSource:     "lead_source_analysis",
	IntentVehicle:        "vehicle_analysis",
}

func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return "unrecognized"
}

// ParseIntent maps an API intent string to its Intent. Unknown strings
// and the empty string map to IntentGeneral so the analyze endpoint can
// be called without an explicit intent.
func ParseIntent(s string) Intent {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "general", "general_analysis":
		return IntentGeneral
	case "sales", "sales_analysis":
		return IntentSales
	case "profit", "profit_analysis":
		return IntentProfit
	case "rep", "reps", "rep_performance":
		return IntentRepPerformance
	case "lead_source", "lead_sources", "lead_source_analysis":
		return IntentLeadSource
	case "vehicle", "vehicles", "vehicle_analysis":
		return IntentVehicle
	default:
		return IntentGeneral
	}
}

// Keyword tables for question classification. Order matters: a question
// mentioning both "profit" and "rep" is classified by the earlier table.
var intentKeywords = []struct {
	intent Intent
	terms  []string
}{
	{IntentSales, []string{"sales", "revenue", "sold", "selling", "sell"}},
	{IntentProfit, []string{"profit", "margin", "profitable", "earnings", "money"}},
	{IntentRepPerformance, []string{"rep", "representative", "salesperson", "sales person", "team"}},
	{IntentLeadSource, []string{"lead", "source", "marketing", "advertisement", "campaign"}},
	{IntentVehicle, []string{"vehicle", "car", "make", "model", "brand"}},
}

// DetectIntent classifies a free-text question by keyword match. A
// question that matches no table returns IntentUnrecognized; callers
// decide whether to reject it or ask the user to rephrase.
func DetectIntent(question string) Intent {
	q := strings.ToLower(strings.TrimSpace(question))
	if q == "" {
		return IntentUnrecognized
	}
	for _, entry := range intentKeywords {
		for _, term := range entry.terms {
			if strings.Contains(q, term) {
				return entry.intent
			}
		}
	}
	return IntentUnrecognized
}
