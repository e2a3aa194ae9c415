package forms

import (
	"context"
	"fmt"
	"sync"

	json "github.com/goccy/go-json"
)

type call struct {
	Method string
	Path   string
	Body   map[string]any
}

// stubRequester answers from a path -> JSON table and records every call.
type stubRequester struct {
	mu        sync.Mutex
	responses map[string]string
	failures  map[string]error
	calls     []call
	block     chan struct{}
}

func newStub() *stubRequester {
	return &stubRequester{responses: map[string]string{}, failures: map[string]error{}}
}

func (s *stubRequester) Get(ctx context.Context, path string, out any) error {
	return s.do(ctx, "GET", path, nil, out)
}

func (s *stubRequester) Post(ctx context.Context, path string, body, out any) error {
	return s.do(ctx, "POST", path, body, out)
}

func (s *stubRequester) Put(ctx context.Context, path string, body, out any) error {
	return s.do(ctx, "PUT", path, body, out)
}

func (s *stubRequester) Delete(ctx context.Context, path string, out any) error {
	return s.do(ctx, "DELETE", path, nil, out)
}

func (s *stubRequester) do(_ context.Context, method, path string, body, out any) error {
	s.mu.Lock()
	entry := call{Method: method, Path: path}
	if body != nil {
		raw, _ := json.Marshal(body)
		_ = json.Unmarshal(raw, &entry.Body)
	}
	s.calls = append(s.calls, entry)
	block := s.block
	err := s.failures[method+" "+path]
	payload, ok := s.responses[method+" "+path]
	s.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return err
	}
	if !ok {
		if method == "GET" {
			return fmt.Errorf("stub: no response for %s %s", method, path)
		}
		payload = `{"resourceId": 1}`
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal([]byte(payload), out)
}

func (s *stubRequester) Calls() []call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]call(nil), s.calls...)
}

func (s *stubRequester) mutations() []call {
	var out []call
	for _, c := range s.Calls() {
		if c.Method != "GET" {
			out = append(out, c)
		}
	}
	return out
}
