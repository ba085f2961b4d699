// Package analytics computes grouped aggregates and rankings over a
// normalized dataset in a single pass. All computation is request-scoped;
// nothing here holds state between calls.
package analytics

import (
	"fmt"
	"sort"

	"watchdog/internal/normalize"
	"watchdog/pkg/contracts/domain"
)

// Dimension selects the grouping key for an aggregation
type Dimension string

const (
	DimensionSalesRep   Dimension = "sales_rep"
	DimensionLeadSource Dimension = "lead_source"
	DimensionVehicle    Dimension = "vehicle"
)

// Metric selects the value being aggregated
type Metric string

const (
	MetricProfit      Metric = "profit"
	MetricSalePrice   Metric = "sale_price"
	MetricDaysToClose Metric = "days_to_close"
)

// Aggregate is one ranked bucket: a grouping key with count, sum and mean
// for the requested metric. Count covers every record in the group; N, Sum
// and Mean cover only records where the metric was present.
type Aggregate struct {
	Key   string  `json:"key"`
	Name  string  `json:"name"`
	Count int     `json:"count"`
	N     int     `json:"n"`
	Sum   float64 `json:"sum"`
	Mean  float64 `json:"mean"`
}

// GroupOf returns the grouping key and display form of a record for the
// dimension. Records with an empty group value are skipped by Rank.
func GroupOf(rec domain.SaleRecord, dim Dimension) (key, display string) {
	switch dim {
	case DimensionSalesRep:
		display = rec.SalesRep
	case DimensionLeadSource:
		display = rec.LeadSource
	case DimensionVehicle:
		display = rec.Vehicle()
	}
	return normalize.FoldKey(display), display
}

// ValueOf extracts the metric value from a record; ok is false when the
// field is absent (degraded).
func ValueOf(rec domain.SaleRecord, metric Metric) (value float64, ok bool) {
	switch metric {
	case MetricProfit:
		return rec.Profit.Value, rec.Profit.Valid
	case MetricSalePrice:
		return rec.SoldPrice.Value, rec.SoldPrice.Valid
	case MetricDaysToClose:
		return rec.DaysToClose.Value, rec.DaysToClose.Valid
	default:
		return 0, false
	}
}

// Rank groups the records by dimension and returns the buckets ordered
// descending by metric sum. Ties break by higher count, then ascending key,
// so rankings are deterministic. Buckets where every input was degraded for
// the metric are excluded from the ranking.
func Rank(records []domain.SaleRecord, dim Dimension, metric Metric) []Aggregate {
	buckets := make(map[string]*Aggregate)
	var order []string

	for _, rec := range records {
		key, display := GroupOf(rec, dim)
		if key == "" {
			continue
		}

		b, exists := buckets[key]
		if !exists {
			b = &Aggregate{Key: key, Name: display}
			buckets[key] = b
			order = append(order, key)
		}
		b.Count++

		if v, ok := ValueOf(rec, metric); ok {
			b.N++
			b.Sum += v
		}
	}

	ranked := make([]Aggregate, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		if b.N == 0 {
			continue
		}
		b.Mean = b.Sum / float64(b.N)
		ranked = append(ranked, *b)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Sum != ranked[j].Sum {
			return ranked[i].Sum > ranked[j].Sum
		}
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Key < ranked[j].Key
	})

	return ranked
}

// Top returns the leading bucket of a ranking, or nil for an empty one
func Top(ranked []Aggregate) *Aggregate {
	if len(ranked) == 0 {
		return nil
	}
	top := ranked[0]
	return &top
}

// ParseDimension converts the wire form of a dimension
func ParseDimension(s string) (Dimension, error) {
	switch Dimension(s) {
	case DimensionSalesRep, DimensionLeadSource, DimensionVehicle:
		return Dimension(s), nil
	default:
		return "", fmt.Errorf("unknown dimension: %q", s)
	}
}

// ParseMetric converts the wire form of a metric
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricProfit, MetricSalePrice, MetricDaysToClose:
		return Metric(s), nil
	default:
		return "", fmt.Errorf("unknown metric: %q", s)
	}
}
