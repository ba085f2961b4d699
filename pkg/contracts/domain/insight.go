package domain

// Insight is a display-ready fact derived from aggregated sales data.
// Insights are created fresh per analysis or question request and are not
// persisted.
type Insight struct {
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	Employee      string   `json:"employee,omitempty"`
	EmployeeTitle string   `json:"employee_title,omitempty"`
	Amount        string   `json:"amount,omitempty"`
	Percentage    string   `json:"percentage,omitempty"`
	ActionItems   []string `json:"action_items,omitempty"`
}
