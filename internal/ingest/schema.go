package ingest

// Schema identifies which dealership export format an upload uses
type Schema int

const (
	SchemaUnknown Schema = iota
	// SchemaSimple is the flat per-sale export (sales_rep_name, lead_source,
	// sold_price, profit, ...).
	SchemaSimple
	// SchemaDetailed is the CRM sold-log export (global_customer_id,
	// auto_lead_id, sold_status, sold_date, lead_source, ...).
	SchemaDetailed
)

func (s Schema) String() string {
	switch s {
	case SchemaSimple:
		return "simple"
	case SchemaDetailed:
		return "detailed"
	default:
		return "unknown"
	}
}

var (
	simpleIndicators = []string{
		"lead_source", "listing_price", "sold_price", "profit", "sales_rep_name",
	}
	detailedIndicators = []string{
		"global_customer_id", "auto_lead_id", "sold_status", "sold_date", "lead_source",
	}
)

// DetectSchema classifies an upload by how many indicator columns of each
// known format appear in its (normalized) header. A format matches when more
// than 60% of its indicators are present.
func DetectSchema(columns []string) Schema {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}

	score := func(indicators []string) float64 {
		hits := 0
		for _, ind := range indicators {
			if present[ind] {
				hits++
			}
		}
		return float64(hits) / float64(len(indicators))
	}

	switch {
	case score(simpleIndicators) > 0.6:
		return SchemaSimple
	case score(detailedIndicators) > 0.6:
		return SchemaDetailed
	default:
		return SchemaUnknown
	}
}
