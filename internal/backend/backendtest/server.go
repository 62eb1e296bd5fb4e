// Package backendtest provides an in-process fake of the code assistant
// service for tests.
package backendtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Request is one call received by the fake.
type Request struct {
	Method      string
	Path        string
	ContentType string
	RequestID   string
	Code        string
}

// Reply is what the fake sends back.
type Reply struct {
	Status int    // defaults to 200
	Body   string // raw body, sent as-is
}

// Handler decides the reply for a decoded request.
type Handler func(Request) Reply

// Result replies {"result": result} with 200.
func Result(result string) Handler {
	return func(Request) Reply {
		b, _ := json.Marshal(map[string]string{"result": result})
		return Reply{Status: http.StatusOK, Body: string(b)}
	}
}

// Echo replies with the endpoint path and the submitted code.
func Echo() Handler {
	return func(r Request) Reply {
		b, _ := json.Marshal(map[string]string{"result": r.Path + ":" + r.Code})
		return Reply{Status: http.StatusOK, Body: string(b)}
	}
}

// Status replies with the given status and body.
func Status(code int, body string) Handler {
	return func(Request) Reply {
		return Reply{Status: code, Body: body}
	}
}

// Server is a running fake backend.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	handler  Handler
	requests []Request
}

// Paths lists the endpoints the fake answers on.
var Paths = []string{"/completion", "/debugging", "/testcase"}

// New starts a fake that answers with h and is closed when t finishes.
func New(t testing.TB, h Handler) *Server {
	t.Helper()
	s := &Server{handler: h}

	mux := http.NewServeMux()
	for _, p := range Paths {
		mux.HandleFunc(p, s.handleRun)
	}
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// SetHandler swaps the reply strategy.
func (s *Server) SetHandler(h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
}

// Requests returns a copy of the calls received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// handleRun handles POST /<endpoint> requests
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req := Request{
		Method:      r.Method,
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
		RequestID:   r.Header.Get("X-Request-ID"),
		Code:        body.Code,
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	h := s.handler
	s.mu.Unlock()

	reply := Reply{Status: http.StatusOK, Body: `{"result":""}`}
	if h != nil {
		reply = h(req)
	}
	if reply.Status == 0 {
		reply.Status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(reply.Status)
	_, _ = w.Write([]byte(reply.Body))
}
