package models

import (
	"encoding/json"
	"time"
)

const (
	DefaultMacroName   = "Unknown"
	DefaultAuthorName  = "Macro Bot"
	UpdateTimestampFmt = "2006-01-02T15:04:05.000Z"
)

// Update is one received macro event as served to the frontend
type Update struct {
	ID        int64           `json:"id"`
	Timestamp string          `json:"timestamp"`
	Content   string          `json:"content"`
	Embeds    json.RawMessage `json:"embeds"`
	Author    string          `json:"author"`

	// Macro is the stream this update belongs to, not part of the wire format
	Macro string `json:"-"`
}

// FormatUpdateTimestamp renders a receipt time the way updates carry it
func FormatUpdateTimestamp(t time.Time) string {
	return t.UTC().Format(UpdateTimestampFmt)
}

// WebhookPayload is the normalized form of an incoming macro webhook body.
// Every field already holds its default when the sender omitted it.
type WebhookPayload struct {
	Macro   string
	Content string
	Embeds  json.RawMessage
	Author  string
}
