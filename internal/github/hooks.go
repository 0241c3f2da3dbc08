package gh

import (
	"net/http"
	"sync"
)

// RequestHook runs before an API request is sent.
type RequestHook func(req *http.Request)

// ResponseHook runs after an API response is received (or the transport
// failed; resp is nil in that case).
type ResponseHook func(resp *http.Response, err error)

// HookRegistry collects request lifecycle hooks for a client. Rate-limit
// accounting and retry bookkeeping attach here rather than inside the
// resolver layer.
type HookRegistry struct {
	mu     sync.RWMutex
	before []RequestHook
	after  []ResponseHook
}

// NewHookRegistry returns an empty registry.
func NewHookRegistry() *HookRegistry {
	return &HookRegistry{}
}

// OnRequest registers a hook invoked before every API request.
func (h *HookRegistry) OnRequest(hook RequestHook) {
	if hook == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.before = append(h.before, hook)
}

// OnResponse registers a hook invoked after every API response.
func (h *HookRegistry) OnResponse(hook ResponseHook) {
	if hook == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.after = append(h.after, hook)
}

func (h *HookRegistry) runBefore(req *http.Request) {
	h.mu.RLock()
	hooks := h.before
	h.mu.RUnlock()
	for _, hook := range hooks {
		hook(req)
	}
}

func (h *HookRegistry) runAfter(resp *http.Response, err error) {
	h.mu.RLock()
	hooks := h.after
	h.mu.RUnlock()
	for _, hook := range hooks {
		hook(resp, err)
	}
}

// transport wraps next so every request and response passes through the
// registered hooks.
func (h *HookRegistry) transport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &hookTransport{hooks: h, next: next}
}

type hookTransport struct {
	hooks *HookRegistry
	next  http.RoundTripper
}

func (t *hookTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.hooks.runBefore(req)
	resp, err := t.next.RoundTrip(req)
	t.hooks.runAfter(resp, err)
	return resp, err
}
