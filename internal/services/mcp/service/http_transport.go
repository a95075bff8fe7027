package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// channelBufferSize is the buffer size for request and notification
	// channels, allowing some buffering before senders block.
	channelBufferSize = 10

	// requestTimeout is the maximum time to wait for a JSON-RPC response.
	requestTimeout = 30 * time.Second

	// shutdownTimeout is the maximum time to wait for graceful HTTP server
	// shutdown. Longer than requestTimeout so in-flight requests can finish.
	shutdownTimeout = 35 * time.Second

	// sessionCleanupInterval is how often expired sessions are reaped.
	sessionCleanupInterval = 5 * time.Minute

	// sessionExpirationTime is how long a session can be inactive before
	// being cleaned up.
	sessionExpirationTime = 1 * time.Hour

	// sseHeartbeatInterval is how often lastUsed is refreshed for active
	// SSE connections.
	sseHeartbeatInterval = 30 * time.Second

	// sessionReadyTimeout bounds how long a request waits for a session
	// connection to become ready before continuing.
	sessionReadyTimeout = 100 * time.Millisecond
)

// HTTPTransport implements mcp.Transport for HTTP-based MCP communication.
// It serves JSON-RPC messages over POST requests and streams notifications
// via Server-Sent Events. Session lifecycle and cleanup are explicit so
// long-lived clients cannot leak resources.
type HTTPTransport struct {
	addr         string
	allowedHosts map[string]struct{}
	auth         *bearerAuth
	server       *mcp.Server
	sessions     map[string]*httpSession
	sessionsMu   sync.RWMutex
	httpServer   *http.Server
	serverCtx    context.Context
	serverCancel context.CancelFunc
	serverOnceMu sync.Mutex
	serverOnce   map[string]*sync.Once
}

// httpSession maintains state for a single MCP session in memory.
type httpSession struct {
	id        string
	conn      *httpConnection
	createdAt time.Time
	lastUsed  time.Time
}

// NewHTTPTransport creates an HTTP transport serving the given MCP server.
// It defaults to localhost-only binding so the default footprint stays
// constrained to local development unless hosts are configured explicitly.
func NewHTTPTransport(cfg Config, server *mcp.Server) *HTTPTransport {
	addr := cfg.HTTPAddr
	if addr == "" {
		addr = "localhost:8081"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &HTTPTransport{
		addr:         addr,
		allowedHosts: parseAllowedHosts(cfg.AllowedHosts),
		auth:         newBearerAuth(cfg.AuthSecret),
		server:       server,
		sessions:     make(map[string]*httpSession),
		serverCtx:    ctx,
		serverCancel: cancel,
		serverOnce:   make(map[string]*sync.Once),
	}
}

// Start starts the HTTP server and blocks until context cancellation.
// The same mux multiplexes POST requests and SSE streams while sharing
// host validation, auth, and session lifecycle enforcement.
func (t *HTTPTransport) Start(ctx context.Context) error {
	t.serverCtx, t.serverCancel = context.WithCancel(ctx)

	go t.cleanupSessions(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			t.handleSSE(w, r)
		case http.MethodPost:
			t.handleMessages(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/mcp/health", t.handleHealth)

	t.httpServer = &http.Server{
		Addr:    t.addr,
		Handler: mux,
	}

	log.Printf("Starting MCP HTTP server on %s", t.addr)

	errChan := make(chan error, 1)
	go func() {
		if err := t.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Printf("Shutting down MCP HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := t.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP server: %w", err)
		}
		if t.serverCancel != nil {
			t.serverCancel()
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("HTTP server error: %w", err)
	}
}

// Connect implements mcp.Transport.Connect. Each call creates a fresh
// session so one client identity can be tracked across multiple
// request/notification streams.
func (t *HTTPTransport) Connect(ctx context.Context) (mcp.Connection, error) {
	sessionID := generateSessionID()

	conn := &httpConnection{
		sessionID:   sessionID,
		reqChan:     make(chan jsonrpc.Message, channelBufferSize),
		notifyChan:  make(chan jsonrpc.Message, channelBufferSize),
		closed:      make(chan struct{}),
		ready:       make(chan struct{}, 1),
		pendingReqs: make(map[jsonrpc.ID]chan jsonrpc.Message),
	}

	session := &httpSession{
		id:        sessionID,
		conn:      conn,
		createdAt: time.Now(),
		lastUsed:  time.Now(),
	}

	t.sessionsMu.Lock()
	t.sessions[sessionID] = session
	t.sessionsMu.Unlock()

	return conn, nil
}

func (t *HTTPTransport) cleanupSessions(ctx context.Context) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.sessionsMu.Lock()
			expiration := time.Now().Add(-sessionExpirationTime)
			for id, session := range t.sessions {
				if session.lastUsed.Before(expiration) {
					session.conn.Close()
					delete(t.sessions, id)
					t.serverOnceMu.Lock()
					delete(t.serverOnce, id)
					t.serverOnceMu.Unlock()
				}
			}
			t.sessionsMu.Unlock()
		}
	}
}

// ensureServerRunning starts the MCP server session for this connection
// exactly once and waits briefly for the connection to become ready.
func (t *HTTPTransport) ensureServerRunning(session *httpSession) {
	if t.server == nil {
		return
	}

	t.serverOnceMu.Lock()
	once, exists := t.serverOnce[session.id]
	if !exists {
		once = &sync.Once{}
		t.serverOnce[session.id] = once
	}
	t.serverOnceMu.Unlock()

	transport := &sessionTransport{conn: session.conn}
	once.Do(func() {
		go func() {
			serverSession, err := t.server.Connect(t.serverCtx, transport, nil)
			if err != nil {
				log.Printf("Failed to connect MCP server session %s: %v", session.id, err)
				return
			}
			_ = serverSession.Wait()
		}()
	})

	select {
	case <-session.conn.ready:
	case <-time.After(sessionReadyTimeout):
		// Readiness will land when the first message forces a Read.
	case <-t.serverCtx.Done():
	}
}

// lookupSession resolves the session named by the Mcp-Session-Id header.
func (t *HTTPTransport) lookupSession(r *http.Request) (*httpSession, bool) {
	sessionID := r.Header.Get("Mcp-Session-Id")
	if sessionID == "" {
		return nil, false
	}
	t.sessionsMu.RLock()
	defer t.sessionsMu.RUnlock()
	session, ok := t.sessions[sessionID]
	return session, ok
}

func (t *HTTPTransport) touchSession(id string) {
	t.sessionsMu.Lock()
	if session, ok := t.sessions[id]; ok && session != nil {
		session.lastUsed = time.Now()
	}
	t.sessionsMu.Unlock()
}

// sessionTransport is a transport that returns a specific pre-existing
// connection, letting Server.Connect attach to one HTTP session.
type sessionTransport struct {
	conn mcp.Connection
}

func (st *sessionTransport) Connect(ctx context.Context) (mcp.Connection, error) {
	return st.conn, nil
}

var sessionCounter atomic.Uint64

// generateSessionID generates a unique session ID using crypto/rand
// combined with a counter to prevent collisions.
func generateSessionID() string {
	b := make([]byte, 8)
	counter := sessionCounter.Add(1)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("session_%d_%d", time.Now().UnixNano(), counter)
	}
	return fmt.Sprintf("session_%s_%d", hex.EncodeToString(b), counter)
}
