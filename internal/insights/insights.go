// Package insights turns aggregated sales data into display-ready
// narrative: titled insight cards, chart documents and plain-text
// answers to free-form questions.
package insights

import (
	"errors"
	"fmt"
	"log/slog"

	"watchdog/internal/analytics"
	"watchdog/pkg/contracts/domain"
)

// ErrUnrecognizedQuestion is returned by Answer when a question matches
// none of the known intents. Callers surface it as a 422 instead of
// falling back to a general analysis the user did not ask for.
var ErrUnrecognizedQuestion = errors.New("question does not match any known intent")

// chartLimit caps how many buckets a generated chart shows.
const chartLimit = 10

// Report is the full output of an analysis or question: the resolved
// intent, the insight cards, an optional chart and, for questions, a
// direct answer.
type Report struct {
	Intent   Intent            `json:"-"`
	Answer   string            `json:"answer,omitempty"`
	Insights []domain.Insight  `json:"insights"`
	Chart    *ChartData        `json:"chart,omitempty"`
	Summary  analytics.Summary `json:"summary"`
}

// Engine generates reports from normalized sale records.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates an insight engine. A nil logger falls back to the
// default slog logger.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger.With(slog.String("component", "insights"))}
}

// Generate builds a report for an explicit intent. IntentUnrecognized is
// rejected; analyze callers should map intent strings with ParseIntent,
// which never produces it.
func (e *Engine) Generate(records []domain.SaleRecord, intent Intent) (*Report, error) {
	if intent == IntentUnrecognized {
		return nil, ErrUnrecognizedQuestion
	}

	e.logger.Debug("generating insights",
		slog.String("intent", intent.String()),
		slog.Int("records", len(records)))

	summary := analytics.Summarize(records)
	report := &Report{Intent: intent, Summary: summary}

	switch intent {
	case IntentSales:
		e.salesReport(report, records, summary)
	case IntentProfit:
		e.profitReport(report, records, summary)
	case IntentRepPerformance:
		e.repReport(report, records, summary)
	case IntentLeadSource:
		e.leadSourceReport(report, records, summary)
	case IntentVehicle:
		e.vehicleReport(report, records, summary)
	default:
		e.generalReport(report, records, summary)
	}

	return report, nil
}

// Answer classifies a free-form question, runs the matching analysis and
// attaches a direct answer. Questions that match no intent fail with
// ErrUnrecognizedQuestion.
func (e *Engine) Answer(records []domain.SaleRecord, question string) (*Report, error) {
	intent := DetectIntent(question)
	if intent == IntentUnrecognized {
		e.logger.Info("unrecognized question", slog.String("question", question))
		return nil, ErrUnrecognizedQuestion
	}

	report, err := e.Generate(records, intent)
	if err != nil {
		return nil, err
	}
	report.Answer = e.answerText(question, intent, records, report.Summary)
	return report, nil
}

func (e *Engine) generalReport(report *Report, records []domain.SaleRecord, summary analytics.Summary) {
	dateText := ""
	if summary.DateRange != nil {
		dateText = fmt.Sprintf(" from %s to %s (%d days)",
			summary.DateRange.Start.Format("2006-01-02"),
			summary.DateRange.End.Format("2006-01-02"),
			summary.DateRange.Days)
	}

	report.Insights = append(report.Insights, domain.Insight{
		Title: "Sales Summary",
		Description: fmt.Sprintf("Your dealership generated %s in sales and %s in profit%s.",
			formatCurrency(summary.TotalSales), formatCurrency(summary.TotalProfit), dateText),
		Amount: formatCurrency(summary.TotalProfit),
		ActionItems: []string{
			fmt.Sprintf("Average profit per sale is %s.", formatCurrency(summary.AverageProfit)),
			"Review the top performing areas below for more insights.",
		},
	})

	profitByRep := analytics.Rank(records, analytics.DimensionSalesRep, analytics.MetricProfit)
	if top := analytics.Top(profitByRep); top != nil {
		report.Insights = append(report.Insights, domain.Insight{
			Title:         "Top Sales Representative",
			Description:   fmt.Sprintf("%s leads the team in total profit.", top.Name),
			Employee:      top.Name,
			EmployeeTitle: "top sales representative",
			Amount:        formatCurrency(top.Sum),
			ActionItems: []string{
				fmt.Sprintf("Study %s's sales strategies for team training.", top.Name),
				"Analyze their lead source performance for optimization.",
			},
		})
	}

	profitBySource := analytics.Rank(records, analytics.DimensionLeadSource, analytics.MetricProfit)
	if top := analytics.Top(profitBySource); top != nil {
		report.Insights = append(report.Insights, domain.Insight{
			Title:       "Top Lead Source",
			Description: fmt.Sprintf("%s is your most profitable lead source.", top.Name),
			Amount:      formatCurrency(top.Sum),
			ActionItems: []string{
				fmt.Sprintf("Increase marketing investment in %s.", top.Name),
				"Analyze customer demographics from this source.",
			},
		})
	}

	profitByVehicle := analytics.Rank(records, analytics.DimensionVehicle, analytics.MetricProfit)
	if top := analytics.Top(profitByVehicle); top != nil {
		report.Insights = append(report.Insights, domain.Insight{
			Title:       "Top Vehicle",
			Description: fmt.Sprintf("The %s generates the most profit.", top.Name),
			Amount:      formatCurrency(top.Sum),
			ActionItems: []string{
				fmt.Sprintf("Increase inventory allocation for %s.", top.Name),
				fmt.Sprintf("Train sales team on %s features and benefits.", top.Name),
			},
		})
	}

	report.Chart = chartFromRanking("Profit by Sales Representative", "Total Profit", profitByRep, chartLimit)
}

func (e *Engine) salesReport(report *Report, records []domain.SaleRecord, summary analytics.Summary) {
	report.Insights = append(report.Insights, domain.Insight{
		Title: "Sales Performance",
		Description: fmt.Sprintf("Your dealership generated %s in total sales with an average sale price of %s.",
			formatCurrency(summary.TotalSales), formatCurrency(summary.AverageSalePrice)),
		Amount: formatCurrency(summary.TotalSales),
		ActionItems: []string{
			fmt.Sprintf("Total of %d records analyzed.", summary.TotalRecords),
			"Compare against last period to spot trends.",
		},
	})

	salesByRep := analytics.Rank(records, analytics.DimensionSalesRep, analytics.MetricSalePrice)
	if top := analytics.Top(salesByRep); top != nil {
		report.Insights = append(report.Insights, domain.Insight{
			Title:         "Top Sales Performer",
			Description:   fmt.Sprintf("%s generated the highest sales volume.", top.Name),
			Employee:      top.Name,
			EmployeeTitle: "top performer",
			Amount:        formatCurrency(top.Sum),
			ActionItems: []string{
				fmt.Sprintf("Completed %d sales with an average of %s per sale.", top.Count, formatCurrency(top.Mean)),
				fmt.Sprintf("Consider having %s mentor other team members.", top.Name),
			},
		})
	}

	salesByVehicle := analytics.Rank(records, analytics.DimensionVehicle, analytics.MetricSalePrice)
	if top := analytics.Top(salesByVehicle); top != nil {
		report.Insights = append(report.Insights, domain.Insight{
			Title:       "Best Selling Vehicle",
			Description: fmt.Sprintf("The %s leads your sales volume.", top.Name),
			Amount:      formatCurrency(top.Sum),
			ActionItems: []string{
				fmt.Sprintf("Sold %d units at an average of %s.", top.Count, formatCurrency(top.Mean)),
				fmt.Sprintf("Keep %s inventory stocked to meet demand.", top.Name),
			},
		})
	}

	report.Chart = chartFromRanking("Sales by Representative", "Total Sales", salesByRep, chartLimit)
}

func (e *Engine) profitReport(report *Report, records []domain.SaleRecord, summary analytics.Summary) {
	marginText := ""
	if summary.ProfitMarginValid {
		marginText = fmt.Sprintf(" The overall profit margin is %s.", formatPercent(summary.ProfitMargin))
	}
	insight := domain.Insight{
		Title: "Profit Performance",
		Description: fmt.Sprintf("Your dealership generated %s in total profit with an average of %s per sale.%s",
			formatCurrency(summary.TotalProfit), formatCurrency(summary.AverageProfit), marginText),
		Amount: formatCurrency(summary.TotalProfit),
		ActionItems: []string{
			"Identify the highest margin segments below.",
			"Review pricing on low margin inventory.",
		},
	}
	if summary.ProfitMarginValid {
		insight.Percentage = formatPercent(summary.ProfitMargin)
	}
	report.Insights = append(report.Insights, insight)

	profitByRep := analytics.Rank(records, analytics.DimensionSalesRep, analytics.MetricProfit)
	if top := analytics.Top(profitByRep); top != nil {
		report.Insights = append(report.Insights, domain.Insight{
			Title:         "Top Profit Generator",
			Description:   fmt.Sprintf("%s generates the most profit on your team.", top.Name),
			Employee:      top.Name,
			EmployeeTitle: "top profit generator",
			Amount:        formatCurrency(top.Sum),
			ActionItems: []string{
				fmt.Sprintf("Average profit per sale: %s.", formatCurrency(top.Mean)),
				fmt.Sprintf("Study %s's negotiation techniques for training materials.", top.Name),
			},
		})
	}

	profitBySource := analytics.Rank(records, analytics.DimensionLeadSource, analytics.MetricProfit)
	if top := analytics.Top(profitBySource); top != nil {
		report.Insights = append(report.Insights, domain.Insight{
			Title:       "Most Profitable Lead Source",
			Description: fmt.Sprintf("%s delivers the most profitable leads.", top.Name),
			Amount:      formatCurrency(top.Sum),
			ActionItems: []string{
				fmt.Sprintf("Average profit per sale: %s.", formatCurrency(top.Mean)),
				fmt.Sprintf("Consider increasing marketing investment in %s.", top.Name),
			},
		})
	}

	report.Chart = chartFromRanking("Profit by Sales Representative", "Total Profit", profitByRep, chartLimit)
}

func (e *Engine) repReport(report *Report, records []domain.SaleRecord, summary analytics.Summary) {
	profitByRep := analytics.Rank(records, analytics.DimensionSalesRep, analytics.MetricProfit)

	if len(profitByRep) > 0 {
		var teamProfit float64
		for _, agg := range profitByRep {
			teamProfit += agg.Sum
		}
		avgPerRep := teamProfit / float64(len(profitByRep))
		top := profitByRep[0]

		report.Insights = append(report.Insights, domain.Insight{
			Title: "Sales Team Performance",
			Description: fmt.Sprintf("Your sales team consists of %d representatives with an average profit of %s per rep.",
				len(profitByRep), formatCurrency(avgPerRep)),
			ActionItems: []string{
				fmt.Sprintf("%s is your top performer with %s in profit.", top.Name, formatCurrency(top.Sum)),
				"Consider implementing a mentorship program with top performers.",
			},
		})
	}

	if len(profitByRep) >= 3 {
		report.Insights = append(report.Insights, domain.Insight{
			Title:         "Sales Rep Leaderboard",
			Description:   "Your top 3 sales representatives by profit are:",
			Employee:      profitByRep[0].Name,
			EmployeeTitle: "top performer",
			Amount:        formatCurrency(profitByRep[0].Sum),
			ActionItems: []string{
				fmt.Sprintf("2nd Place: %s with %s", profitByRep[1].Name, formatCurrency(profitByRep[1].Sum)),
				fmt.Sprintf("3rd Place: %s with %s", profitByRep[2].Name, formatCurrency(profitByRep[2].Sum)),
			},
		})
	}

	if best := highestMean(profitByRep); best != nil {
		report.Insights = append(report.Insights, domain.Insight{
			Title:         "Highest Average Profit",
			Description:   fmt.Sprintf("%s achieves the highest average profit per sale.", best.Name),
			Employee:      best.Name,
			EmployeeTitle: "highest margin rep",
			Amount:        formatCurrency(best.Mean),
			ActionItems: []string{
				fmt.Sprintf("Completed %d sales.", best.Count),
				fmt.Sprintf("Study %s's negotiation techniques for training materials.", best.Name),
			},
		})
	}

	report.Chart = chartFromRanking("Profit by Sales Representative", "Total Profit", profitByRep, chartLimit)
}

func (e *Engine) leadSourceReport(report *Report, records []domain.SaleRecord, summary analytics.Summary) {
	profitBySource := analytics.Rank(records, analytics.DimensionLeadSource, analytics.MetricProfit)

	if len(profitBySource) > 0 {
		var totalProfit float64
		for _, agg := range profitBySource {
			totalProfit += agg.Sum
		}
		avgPerSource := totalProfit / float64(len(profitBySource))
		top := profitBySource[0]

		report.Insights = append(report.Insights, domain.Insight{
			Title: "Lead Source Performance",
			Description: fmt.Sprintf("Your dealership uses %d lead sources with an average profit of %s per source.",
				len(profitBySource), formatCurrency(avgPerSource)),
			ActionItems: []string{
				fmt.Sprintf("%s is your top performing source with %s in profit.", top.Name, formatCurrency(top.Sum)),
				"Consider reallocating marketing budget to top performing sources.",
			},
		})
	}

	if best := highestMean(profitBySource); best != nil {
		report.Insights = append(report.Insights, domain.Insight{
			Title:       "Highest Quality Leads",
			Description: fmt.Sprintf("%s provides leads with the highest average profit.", best.Name),
			Amount:      formatCurrency(best.Mean),
			ActionItems: []string{
				fmt.Sprintf("Generated %d sales.", best.Count),
				fmt.Sprintf("Focus on quality over quantity with %s leads.", best.Name),
			},
		})
	}

	report.Chart = chartFromRanking("Profit by Lead Source", "Total Profit", profitBySource, chartLimit)
}

func (e *Engine) vehicleReport(report *Report, records []domain.SaleRecord, summary analytics.Summary) {
	profitByVehicle := analytics.Rank(records, analytics.DimensionVehicle, analytics.MetricProfit)

	if len(profitByVehicle) > 0 {
		daysText := ""
		if summary.AverageDaysToCloseValid {
			daysText = fmt.Sprintf(" with an average time to sell of %s days", formatDays(summary.AverageDaysToClose))
		}
		top := profitByVehicle[0]

		report.Insights = append(report.Insights, domain.Insight{
			Title: "Vehicle Sales Performance",
			Description: fmt.Sprintf("Your dealership sold %d vehicles%s.",
				summary.TotalRecords, daysText),
			ActionItems: []string{
				fmt.Sprintf("%s is your most profitable vehicle with %s in profit.", top.Name, formatCurrency(top.Sum)),
				fmt.Sprintf("Sold %d %s vehicles at an average profit of %s.", top.Count, top.Name, formatCurrency(top.Mean)),
			},
		})

		report.Insights = append(report.Insights, domain.Insight{
			Title:       "Top Performing Vehicle",
			Description: fmt.Sprintf("The %s is your top performing vehicle by profit.", top.Name),
			Amount:      formatCurrency(top.Sum),
			ActionItems: []string{
				fmt.Sprintf("Average profit per sale: %s.", formatCurrency(top.Mean)),
				fmt.Sprintf("Consider increasing %s inventory allocation.", top.Name),
			},
		})
	}

	daysByVehicle := analytics.Rank(records, analytics.DimensionVehicle, analytics.MetricDaysToClose)
	if fastest := lowestMean(daysByVehicle); fastest != nil {
		report.Insights = append(report.Insights, domain.Insight{
			Title:       "Fastest Selling Vehicle",
			Description: fmt.Sprintf("The %s sells the fastest on your lot.", fastest.Name),
			ActionItems: []string{
				fmt.Sprintf("Average days to sell: %s", formatDays(fastest.Mean)),
				fmt.Sprintf("Maintain optimal inventory levels of %s to maximize turnover.", fastest.Name),
			},
		})
	}

	report.Chart = chartFromRanking("Profit by Vehicle", "Total Profit", profitByVehicle, chartLimit)
}

// highestMean scans a ranking for the bucket with the best average,
// preferring earlier rank position on ties.
func highestMean(ranked []analytics.Aggregate) *analytics.Aggregate {
	var best *analytics.Aggregate
	for i := range ranked {
		if best == nil || ranked[i].Mean > best.Mean {
			best = &ranked[i]
		}
	}
	if best == nil {
		return nil
	}
	out := *best
	return &out
}

// lowestMean is highestMean for metrics where smaller is better, like
// days to close.
func lowestMean(ranked []analytics.Aggregate) *analytics.Aggregate {
	var best *analytics.Aggregate
	for i := range ranked {
		if best == nil || ranked[i].Mean < best.Mean {
			best = &ranked[i]
		}
	}
	if best == nil {
		return nil
	}
	out := *best
	return &out
}
