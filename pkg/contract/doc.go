// Package contract describes the request bodies the console emits as an
// OpenAPI 3 document and validates payloads against it. The mock backend
// uses it to reject bodies a real backend would not accept, and the console
// server publishes the document at /openapi.json.
package contract
