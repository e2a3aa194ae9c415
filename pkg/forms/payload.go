package forms

import (
	"strconv"
)

// payloadBuilder copies typed values into a request body, skipping blanks so
// optional fields are omitted rather than sent empty.
type payloadBuilder struct {
	values Values
	body   map[string]any
}

func newPayload(values Values) *payloadBuilder {
	return &payloadBuilder{values: values, body: map[string]any{}}
}

func (b *payloadBuilder) str(keys ...string) *payloadBuilder {
	for _, key := range keys {
		if value := b.values.Get(key); value != "" {
			b.body[key] = value
		}
	}
	return b
}

func (b *payloadBuilder) int(keys ...string) *payloadBuilder {
	for _, key := range keys {
		value := b.values.Get(key)
		if value == "" {
			continue
		}
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			b.body[key] = n
		} else {
			b.body[key] = value
		}
	}
	return b
}

func (b *payloadBuilder) float(keys ...string) *payloadBuilder {
	for _, key := range keys {
		value := b.values.Get(key)
		if value == "" {
			continue
		}
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			b.body[key] = n
		} else {
			b.body[key] = value
		}
	}
	return b
}

func (b *payloadBuilder) date(keys ...string) *payloadBuilder {
	found := false
	for _, key := range keys {
		if value := b.values.Get(key); value != "" {
			b.body[key] = BackendDate(value)
			found = true
		}
	}
	if found {
		b.body["dateFormat"] = DateFormat
		b.body["locale"] = Locale
	}
	return b
}

func (b *payloadBuilder) boolean(keys ...string) *payloadBuilder {
	for _, key := range keys {
		if _, ok := b.values[key]; ok {
			b.body[key] = truthy(b.values.Get(key))
		}
	}
	return b
}

func (b *payloadBuilder) set(key string, value any) *payloadBuilder {
	b.body[key] = value
	return b
}

func (b *payloadBuilder) locale() *payloadBuilder {
	b.body["locale"] = Locale
	return b
}

func (b *payloadBuilder) build() map[string]any {
	return b.body
}
