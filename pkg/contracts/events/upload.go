// Package events contains the event contracts broadcast over WebSocket
// while an upload moves through the ingestion pipeline.
package events

import (
	"encoding/json"
	"time"
)

// Upload lifecycle stages, emitted in order for a successful upload.
const (
	StageReceived   = "upload:received"
	StageParsed     = "upload:parsed"
	StageNormalized = "upload:normalized"
	StageReady      = "upload:ready"
	StageFailed     = "upload:failed"
)

// UploadEvent is one progress notification for an upload.
type UploadEvent struct {
	Stage     string    `json:"stage"`
	UploadID  string    `json:"upload_id"`
	Filename  string    `json:"filename,omitempty"`
	RowCount  int       `json:"row_count,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewUploadEvent builds an event stamped with the current time.
func NewUploadEvent(stage, uploadID string) UploadEvent {
	return UploadEvent{
		Stage:     stage,
		UploadID:  uploadID,
		Timestamp: time.Now().UTC(),
	}
}

// Marshal encodes the event for the wire. Encoding an event never fails for
// the field types above; the error return mirrors json.Marshal for callers
// that check anyway.
func (e UploadEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
