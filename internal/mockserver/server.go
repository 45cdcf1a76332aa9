// Package mockserver is an in-memory Beaconpush REST service for tests and
// local development.
package mockserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
)

// DefaultPrefix is the path the hosted API is versioned under.
const DefaultPrefix = "/1.0.0"

// Options configures a Server.
type Options struct {
	// Prefix is prepended to every route. Defaults to DefaultPrefix.
	Prefix string
	// APIKey is the only account accepted. Empty accepts any account.
	APIKey string
	// SecretKey must match X-Beacon-Secret-Key when non-empty.
	SecretKey string
	Logger    *slog.Logger
}

// Message is one delivered push message.
type Message struct {
	Target string `json:"target"`
	Name   string `json:"name"`
	Body   string `json:"body"`
}

// Server holds connected users, their channels and every message sent.
type Server struct {
	opts   Options
	logger *slog.Logger
	mux    *httprouter.Router

	mu       sync.Mutex
	online   map[string]struct{}
	channels map[string][]string
	messages []Message
}

// New creates a server with no connected users.
func New(opts Options) *Server {
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	opts.Prefix = "/" + strings.Trim(opts.Prefix, "/")
	if opts.Prefix == "/" {
		opts.Prefix = ""
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		opts:     opts,
		logger:   logger,
		mux:      httprouter.New(),
		online:   make(map[string]struct{}),
		channels: make(map[string][]string),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	p := s.opts.Prefix
	s.mux.GET(p+"/:account/users", s.guard(s.onlineCount))
	s.mux.GET(p+"/:account/users/:username", s.guard(s.userOnline))
	s.mux.DELETE(p+"/:account/users/:username", s.guard(s.signOut))
	s.mux.POST(p+"/:account/users/:username", s.guard(s.sendToUser))
	s.mux.GET(p+"/:account/channels/:name", s.guard(s.channelUsers))
	s.mux.POST(p+"/:account/channels/:name", s.guard(s.sendToChannel))
	s.mux.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "no such resource")
	})
	s.mux.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

// ServeHTTP implements http.Handler. Routing happens on the escaped path so
// a name holding an encoded "/" stays one segment; handlers read names with
// param.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	routed := r.Clone(r.Context())
	routed.URL.Path = r.URL.EscapedPath()
	routed.URL.RawPath = ""
	s.mux.ServeHTTP(w, routed)
}

// param returns the unescaped value of a path parameter.
func param(ps httprouter.Params, name string) string {
	raw := ps.ByName(name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

// Prefix returns the path prefix routes are served under.
func (s *Server) Prefix() string { return s.opts.Prefix }

// Connect marks username online and joins it to channels.
func (s *Server) Connect(username string, channels ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.online[username] = struct{}{}
	for _, ch := range channels {
		if !slices.Contains(s.channels[ch], username) {
			s.channels[ch] = append(s.channels[ch], username)
		}
	}
}

// Disconnect removes username from the online set and every channel.
func (s *Server) Disconnect(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.online[username]
	delete(s.online, username)
	for ch, members := range s.channels {
		s.channels[ch] = slices.DeleteFunc(members, func(m string) bool { return m == username })
	}
	return ok
}

// Messages returns a copy of every message delivered so far.
func (s *Server) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.messages)
}

// ListenAndServe serves on addr until ctx is cancelled. ready, when non-nil,
// receives the bound address once the listener is open.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: s, ReadHeaderTimeout: 10 * time.Second}
	if ready != nil {
		ready(ln.Addr())
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) guard(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		s.logger.Debug("mock request", "method", r.Method, "path", r.URL.Path)
		if s.opts.APIKey != "" && param(ps, "account") != s.opts.APIKey {
			writeError(w, http.StatusUnauthorized, "unknown account")
			return
		}
		if s.opts.SecretKey != "" && r.Header.Get("X-Beacon-Secret-Key") != s.opts.SecretKey {
			writeError(w, http.StatusUnauthorized, "invalid secret key")
			return
		}
		next(w, r, ps)
	}
}

func (s *Server) onlineCount(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.mu.Lock()
	n := len(s.online)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]int{"online": n})
}

func (s *Server) userOnline(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	s.mu.Lock()
	_, ok := s.online[param(ps, "username")]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "user not online")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) signOut(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	if !s.Disconnect(param(ps, "username")) {
		writeError(w, http.StatusNotFound, "user not online")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) sendToUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s.deliver(w, r, "user", param(ps, "username"))
}

func (s *Server) sendToChannel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s.deliver(w, r, "channel", param(ps, "name"))
}

func (s *Server) channelUsers(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	s.mu.Lock()
	users := slices.Clone(s.channels[param(ps, "name")])
	s.mu.Unlock()
	if users == nil {
		users = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"users": users})
}

const maxBody = 1 << 20

func (s *Server) deliver(w http.ResponseWriter, r *http.Request, target, name string) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		writeError(w, http.StatusBadRequest, "content type must be application/json")
		return
	}
	var raw json.RawMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	s.messages = append(s.messages, Message{Target: target, Name: name, Body: string(raw)})
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]int{"status": http.StatusOK})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"status": status, "message": message})
}
