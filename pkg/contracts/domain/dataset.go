package domain

import (
	"time"
)

// Dataset is one ingested upload: the normalized records plus the metadata
// reported back to the client. Datasets are immutable once stored; analysis
// and question calls only read them.
type Dataset struct {
	ID          string       `json:"upload_id"`
	Filename    string       `json:"filename"`
	RowCount    int          `json:"row_count"`
	ColumnCount int          `json:"column_count"`
	Columns     []string     `json:"columns,omitempty"`
	UploadedAt  time.Time    `json:"uploaded_at"`
	Records     []SaleRecord `json:"-"`
}
