package analytics

import (
	"time"

	"watchdog/pkg/contracts/domain"
)

// Summary holds the dataset-wide figures used by the general analysis and
// as context for per-dimension insights.
type Summary struct {
	TotalRecords     int     `json:"total_records"`
	TotalSales       float64 `json:"total_sales"`
	TotalProfit      float64 `json:"total_profit"`
	AverageSalePrice float64 `json:"average_sale_price"`
	AverageProfit    float64 `json:"average_profit"`

	// ProfitMargin is total profit over total sales, as a percentage.
	// Valid only when both totals could be computed.
	ProfitMargin      float64 `json:"profit_margin"`
	ProfitMarginValid bool    `json:"-"`

	AverageDaysToClose      float64 `json:"average_days_to_close"`
	AverageDaysToCloseValid bool    `json:"-"`

	DateRange     *DateRange `json:"date_range,omitempty"`
	HighestSale   *Highlight `json:"highest_sale,omitempty"`
	HighestProfit *Highlight `json:"highest_profit,omitempty"`
}

// DateRange is the span of sold dates present in the dataset
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Days  int       `json:"days"`
}

// Highlight points at a single standout sale
type Highlight struct {
	Amount   float64 `json:"amount"`
	Vehicle  string  `json:"vehicle,omitempty"`
	SalesRep string  `json:"sales_rep,omitempty"`
}

// Summarize computes the dataset summary in one pass. Absent fields are
// excluded from the figures they would feed; they never count as zero.
func Summarize(records []domain.SaleRecord) Summary {
	s := Summary{TotalRecords: len(records)}

	var (
		salesN, profitN, daysN int
		daysSum                float64
		minDate, maxDate       time.Time
	)

	for _, rec := range records {
		if rec.SoldPrice.Valid {
			s.TotalSales += rec.SoldPrice.Value
			salesN++
			if s.HighestSale == nil || rec.SoldPrice.Value > s.HighestSale.Amount {
				s.HighestSale = &Highlight{
					Amount:   rec.SoldPrice.Value,
					Vehicle:  rec.Vehicle(),
					SalesRep: rec.SalesRep,
				}
			}
		}
		if rec.Profit.Valid {
			s.TotalProfit += rec.Profit.Value
			profitN++
			if s.HighestProfit == nil || rec.Profit.Value > s.HighestProfit.Amount {
				s.HighestProfit = &Highlight{
					Amount:   rec.Profit.Value,
					Vehicle:  rec.Vehicle(),
					SalesRep: rec.SalesRep,
				}
			}
		}
		if rec.DaysToClose.Valid {
			daysSum += rec.DaysToClose.Value
			daysN++
		}
		if rec.SoldDate.Valid {
			d := rec.SoldDate.Value
			if minDate.IsZero() || d.Before(minDate) {
				minDate = d
			}
			if maxDate.IsZero() || d.After(maxDate) {
				maxDate = d
			}
		}
	}

	if salesN > 0 {
		s.AverageSalePrice = s.TotalSales / float64(salesN)
	}
	if profitN > 0 {
		s.AverageProfit = s.TotalProfit / float64(profitN)
	}
	if salesN > 0 && profitN > 0 && s.TotalSales != 0 {
		s.ProfitMargin = s.TotalProfit / s.TotalSales * 100
		s.ProfitMarginValid = true
	}
	if daysN > 0 {
		s.AverageDaysToClose = daysSum / float64(daysN)
		s.AverageDaysToCloseValid = true
	}
	if !minDate.IsZero() {
		s.DateRange = &DateRange{
			Start: minDate,
			End:   maxDate,
			Days:  int(maxDate.Sub(minDate).Hours() / 24),
		}
	}

	return s
}
