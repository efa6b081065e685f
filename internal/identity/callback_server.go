package identity

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

const callbackSuccessHTML = `<!DOCTYPE html>
<html><head><title>Signed in</title></head>
<body><h1>Signed in</h1><p>You can close this window and return to stockctl.</p></body></html>`

const callbackErrorHTML = `<!DOCTYPE html>
<html><head><title>Sign-in failed</title></head>
<body><h1>Sign-in failed</h1><p>%s</p><p>Return to stockctl for details.</p></body></html>`

// callbackResult carries the authorization response received on the local
// redirect endpoint.
type callbackResult struct {
	Code             string
	State            string
	Error            string
	ErrorDescription string
}

// IsError returns true when the provider rejected the authorization.
func (r *callbackResult) IsError() bool {
	return r.Error != ""
}

// callbackServer is a temporary local HTTP server that receives a single
// OAuth redirect and then shuts down.
type callbackServer struct {
	port     int
	server   *http.Server
	listener net.Listener
	resultCh chan *callbackResult
	errorCh  chan error
	once     sync.Once
}

func newCallbackServer(port int) *callbackServer {
	return &callbackServer{
		port:     port,
		resultCh: make(chan *callbackResult, 1),
		errorCh:  make(chan error, 1),
	}
}

// Start begins listening and returns the redirect URL to use in the
// authorization request. The server stops when the context is cancelled.
func (s *callbackServer) Start(ctx context.Context) (string, error) {
	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("start callback server on %s: %w", addr, err)
	}
	s.listener = listener
	s.port = listener.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", s.handleCallback)
	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			select {
			case s.errorCh <- err:
			default:
			}
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return fmt.Sprintf("http://localhost:%d/callback", s.port), nil
}

// Wait blocks until the redirect arrives, the server fails, or the context
// is cancelled. An abandoned login therefore surfaces as ctx.Err() instead
// of a forever-pending acquisition.
func (s *callbackServer) Wait(ctx context.Context) (*callbackResult, error) {
	select {
	case result := <-s.resultCh:
		return result, nil
	case err := <-s.errorCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Stop shuts the server down. Safe to call more than once.
func (s *callbackServer) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
}

// handleCallback processes the redirect. Only the first request counts;
// later hits on the endpoint are rejected.
func (s *callbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	var handled bool
	s.once.Do(func() {
		handled = true
		s.processCallback(w, r)
	})
	if !handled {
		http.Error(w, "callback already processed", http.StatusBadRequest)
	}
}

func (s *callbackServer) processCallback(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "no-store")

	query := r.URL.Query()
	result := &callbackResult{
		Code:             query.Get("code"),
		State:            query.Get("state"),
		Error:            query.Get("error"),
		ErrorDescription: query.Get("error_description"),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if result.IsError() {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, callbackErrorHTML, result.ErrorDescription)
	} else {
		fmt.Fprint(w, callbackSuccessHTML)
	}

	s.resultCh <- result
}
