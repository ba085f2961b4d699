// Package exporter writes analysis artifacts to disk: normalized dataset
// CSVs, aggregate report workbooks and chart data documents referenced by
// API responses.
package exporter
