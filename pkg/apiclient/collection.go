package apiclient

import (
	"context"

	"github.com/goliatone/go-mfadmin/pkg/options"
)

// Record is an opaque backend resource.
type Record = map[string]any

// List fetches path and returns its records, accepting either a bare JSON
// array or a paged envelope ({"pageItems": [...]}). Non-object entries are
// skipped.
func (c *Client) List(ctx context.Context, path string) ([]Record, error) {
	var payload any
	if err := c.Get(ctx, path, &payload); err != nil {
		return nil, err
	}
	return Records(payload), nil
}

// Records converts a decoded collection payload into records.
func Records(payload any) []Record {
	items := options.Unwrap(payload)
	if len(items) == 0 {
		return nil
	}
	out := make([]Record, 0, len(items))
	for _, item := range items {
		record, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, record)
	}
	return out
}

// Object fetches path and decodes a JSON object.
func (c *Client) Object(ctx context.Context, path string) (Record, error) {
	var payload map[string]any
	if err := c.Get(ctx, path, &payload); err != nil {
		return nil, err
	}
	if payload == nil {
		payload = map[string]any{}
	}
	return payload, nil
}
