package insights

import (
	"fmt"
	"strings"

	"watchdog/internal/analytics"
	"watchdog/pkg/contracts/domain"
)

// containsAny reports whether the question mentions any of the terms.
// The question is expected to be lowercased already.
func containsAny(q string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(q, t) {
			return true
		}
	}
	return false
}

func (e *Engine) answerText(question string, intent Intent, records []domain.SaleRecord, summary analytics.Summary) string {
	q := strings.ToLower(strings.TrimSpace(question))

	switch intent {
	case IntentSales:
		return e.salesAnswer(q, records, summary)
	case IntentProfit:
		return e.profitAnswer(q, records, summary)
	case IntentRepPerformance:
		return e.repAnswer(q, records, summary)
	case IntentLeadSource:
		return e.leadSourceAnswer(q, records, summary)
	case IntentVehicle:
		return e.vehicleAnswer(q, records, summary)
	default:
		return e.generalAnswer(q, summary)
	}
}

func (e *Engine) salesAnswer(q string, records []domain.SaleRecord, summary analytics.Summary) string {
	totalSales := formatCurrency(summary.TotalSales)
	averageSale := formatCurrency(summary.AverageSalePrice)

	if containsAny(q, "highest", "top", "best", "most") {
		if containsAny(q, "sales rep", "salesperson", "representative") {
			if top := analytics.Top(analytics.Rank(records, analytics.DimensionSalesRep, analytics.MetricSalePrice)); top != nil {
				return fmt.Sprintf("Your top sales representative is %s with %s in total sales. They completed %d sales with an average of %s per sale.",
					top.Name, formatCurrency(top.Sum), top.Count, formatCurrency(top.Mean))
			}
		}
		if containsAny(q, "vehicle", "car", "model", "make") {
			if top := analytics.Top(analytics.Rank(records, analytics.DimensionVehicle, analytics.MetricSalePrice)); top != nil {
				return fmt.Sprintf("Your top selling vehicle is the %s with %s in total sales. You sold %d units with an average price of %s per vehicle.",
					top.Name, formatCurrency(top.Sum), top.Count, formatCurrency(top.Mean))
			}
		}
	}

	if containsAny(q, "total", "overall") {
		return fmt.Sprintf("Your dealership generated %s in total sales. The average sale price was %s.", totalSales, averageSale)
	}
	if containsAny(q, "average", "mean") {
		return fmt.Sprintf("The average sale price at your dealership is %s.", averageSale)
	}

	return fmt.Sprintf("Based on your sales data, your dealership generated %s in total sales with an average sale price of %s. I've provided detailed insights below.",
		totalSales, averageSale)
}

func (e *Engine) profitAnswer(q string, records []domain.SaleRecord, summary analytics.Summary) string {
	totalProfit := formatCurrency(summary.TotalProfit)
	averageProfit := formatCurrency(summary.AverageProfit)
	margin := ""
	if summary.ProfitMarginValid {
		margin = formatPercent(summary.ProfitMargin)
	}

	if containsAny(q, "highest", "top", "best", "most") {
		if containsAny(q, "sales rep", "salesperson", "representative") {
			if top := analytics.Top(analytics.Rank(records, analytics.DimensionSalesRep, analytics.MetricProfit)); top != nil {
				return fmt.Sprintf("Your top profit-generating sales representative is %s with %s in total profit. Their average profit per sale is %s.",
					top.Name, formatCurrency(top.Sum), formatCurrency(top.Mean))
			}
		}
		if containsAny(q, "lead source", "source", "marketing") {
			if top := analytics.Top(analytics.Rank(records, analytics.DimensionLeadSource, analytics.MetricProfit)); top != nil {
				return fmt.Sprintf("Your most profitable lead source is %s with %s in total profit. The average profit per sale from this source is %s.",
					top.Name, formatCurrency(top.Sum), formatCurrency(top.Mean))
			}
		}
		if containsAny(q, "vehicle", "car", "model", "make") {
			if top := analytics.Top(analytics.Rank(records, analytics.DimensionVehicle, analytics.MetricProfit)); top != nil {
				return fmt.Sprintf("Your most profitable vehicle is the %s with %s in total profit. The average profit per sale for this vehicle is %s.",
					top.Name, formatCurrency(top.Sum), formatCurrency(top.Mean))
			}
		}
	}

	if containsAny(q, "total", "overall") {
		return fmt.Sprintf("Your dealership generated %s in total profit with an overall profit margin of %s.", totalProfit, margin)
	}
	if containsAny(q, "average", "mean") {
		return fmt.Sprintf("The average profit per sale at your dealership is %s.", averageProfit)
	}
	if strings.Contains(q, "margin") {
		return fmt.Sprintf("Your dealership's overall profit margin is %s.", margin)
	}

	return fmt.Sprintf("Based on your data, your dealership generated %s in total profit with an average profit of %s per sale. I've provided detailed insights below.",
		totalProfit, averageProfit)
}

func (e *Engine) repAnswer(q string, records []domain.SaleRecord, summary analytics.Summary) string {
	profitByRep := analytics.Rank(records, analytics.DimensionSalesRep, analytics.MetricProfit)

	if containsAny(q, "highest", "top", "best", "most") {
		if top := analytics.Top(profitByRep); top != nil {
			return fmt.Sprintf("Your top performing sales representative is %s with %s in total profit from %d sales.",
				top.Name, formatCurrency(top.Sum), top.Count)
		}
	}

	if containsAny(q, "leaderboard", "ranking", "rank", "compare") && len(profitByRep) >= 3 {
		return fmt.Sprintf("Your top 3 sales representatives by profit are: 1. %s with %s, 2. %s with %s, and 3. %s with %s.",
			profitByRep[0].Name, formatCurrency(profitByRep[0].Sum),
			profitByRep[1].Name, formatCurrency(profitByRep[1].Sum),
			profitByRep[2].Name, formatCurrency(profitByRep[2].Sum))
	}

	if containsAny(q, "average", "mean") && len(profitByRep) > 0 {
		var teamProfit float64
		for _, agg := range profitByRep {
			teamProfit += agg.Sum
		}
		return fmt.Sprintf("The average profit generated per sales representative is %s.",
			formatCurrency(teamProfit/float64(len(profitByRep))))
	}

	return fmt.Sprintf("Your sales team consists of %d representatives. I've provided detailed performance insights for your team below.",
		len(profitByRep))
}

func (e *Engine) leadSourceAnswer(q string, records []domain.SaleRecord, summary analytics.Summary) string {
	profitBySource := analytics.Rank(records, analytics.DimensionLeadSource, analytics.MetricProfit)

	if containsAny(q, "highest", "top", "best", "most") {
		if top := analytics.Top(profitBySource); top != nil {
			return fmt.Sprintf("Your most profitable lead source is %s with %s in total profit from %d sales.",
				top.Name, formatCurrency(top.Sum), top.Count)
		}
	}

	if containsAny(q, "compare", "comparison") && len(profitBySource) >= 3 {
		return fmt.Sprintf("Your top 3 lead sources by profit are: 1. %s with %s, 2. %s with %s, and 3. %s with %s.",
			profitBySource[0].Name, formatCurrency(profitBySource[0].Sum),
			profitBySource[1].Name, formatCurrency(profitBySource[1].Sum),
			profitBySource[2].Name, formatCurrency(profitBySource[2].Sum))
	}

	return fmt.Sprintf("Your dealership uses %d different lead sources. I've provided detailed performance insights for your lead sources below.",
		len(profitBySource))
}

func (e *Engine) vehicleAnswer(q string, records []domain.SaleRecord, summary analytics.Summary) string {
	profitByVehicle := analytics.Rank(records, analytics.DimensionVehicle, analytics.MetricProfit)

	if containsAny(q, "highest", "top", "best", "most") {
		if top := analytics.Top(profitByVehicle); top != nil {
			return fmt.Sprintf("Your most profitable vehicle is the %s with %s in total profit from %d sales.",
				top.Name, formatCurrency(top.Sum), top.Count)
		}
	}

	if containsAny(q, "fast", "quick", "days") {
		daysByVehicle := analytics.Rank(records, analytics.DimensionVehicle, analytics.MetricDaysToClose)
		if fastest := lowestMean(daysByVehicle); fastest != nil {
			overall := ""
			if summary.AverageDaysToCloseValid {
				overall = fmt.Sprintf(" The overall average for all vehicles is %s days.", formatDays(summary.AverageDaysToClose))
			}
			return fmt.Sprintf("Your fastest selling vehicle is the %s with an average of %s days to sell.%s",
				fastest.Name, formatDays(fastest.Mean), overall)
		}
	}

	daysText := ""
	if summary.AverageDaysToCloseValid {
		daysText = fmt.Sprintf(" with an average time to sell of %s days", formatDays(summary.AverageDaysToClose))
	}
	return fmt.Sprintf("Your dealership sold %d vehicles%s. I've provided detailed insights about your vehicle performance below.",
		summary.TotalRecords, daysText)
}

func (e *Engine) generalAnswer(q string, summary analytics.Summary) string {
	totalSales := formatCurrency(summary.TotalSales)
	totalProfit := formatCurrency(summary.TotalProfit)
	averageProfit := formatCurrency(summary.AverageProfit)

	if containsAny(q, "summary", "overview") {
		return fmt.Sprintf("Your dealership generated %s in sales and %s in profit. The average profit per sale is %s. I've provided detailed insights below.",
			totalSales, totalProfit, averageProfit)
	}

	return fmt.Sprintf("Based on your data, I've analyzed your dealership's performance and provided key insights below. Your dealership generated %s in total profit with an average of %s per sale.",
		totalProfit, averageProfit)
}
