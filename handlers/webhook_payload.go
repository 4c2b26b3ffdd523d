package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"

	"macrofeed/core"
	"macrofeed/models"
)

// parseWebhookPayload extracts the known fields from a webhook body.
// Only a body that is not a JSON object is rejected; fields of the wrong type fall back to defaults.
func parseWebhookPayload(body []byte) (models.WebhookPayload, error) {
	payload := models.WebhookPayload{
		Macro:  models.DefaultMacroName,
		Author: models.DefaultAuthorName,
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return payload, fmt.Errorf("%w: %v", core.ErrMalformedPayload, err)
	}
	if fields == nil {
		return payload, fmt.Errorf("%w: request body must be a JSON object", core.ErrMalformedPayload)
	}

	if macro, ok := decodeString(fields["macro"]); ok && macro != "" {
		payload.Macro = macro
	}
	if content, ok := decodeString(fields["content"]); ok {
		payload.Content = content
	}
	if embeds := bytes.TrimSpace(fields["embeds"]); len(embeds) > 0 && embeds[0] == '[' {
		payload.Embeds = json.RawMessage(embeds)
	}

	var author struct {
		Name *string `json:"name"`
	}
	if raw := fields["author"]; len(raw) > 0 {
		if err := json.Unmarshal(raw, &author); err == nil && author.Name != nil {
			payload.Author = *author.Name
		}
	}

	return payload, nil
}

func decodeString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}
	return value, true
}
