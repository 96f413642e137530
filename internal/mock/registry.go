package mock

import "sync"

// Call is one recorded request. Body is nil when the request carried none.
type Call struct {
	Method string  `json:"method"`
	Path   string  `json:"path"`
	Body   *string `json:"body"`
}

// Registry records every non-introspection request the server receives, in
// arrival order. Safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	calls []Call
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends a call to the registry.
func (r *Registry) Add(method, path string, body []byte) {
	call := Call{Method: method, Path: path}
	if body != nil {
		s := string(body)
		call.Body = &s
	}

	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()
}

// List returns a copy of the recorded calls, oldest first. Never nil, so it
// serializes as an empty JSON array rather than null.
func (r *Registry) List() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Clear drops all recorded calls.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}
