package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/tenkey.space/internal/services/calc/app"
	"github.com/louisbranch/tenkey.space/internal/services/mcp/domain"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "tenkey.space MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP runs MCP over HTTP/SSE for browser or remote clients.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	Transport TransportKind
	// HTTPAddr is the HTTP server address (e.g. "localhost:8081"). Defaults
	// to localhost:8081 for HTTP transport.
	HTTPAddr string
	// AllowedHosts lists non-loopback Host/Origin values accepted by the
	// HTTP transport. Loopback hosts are always allowed.
	AllowedHosts []string
	// AuthSecret enables HS256 bearer-token authentication on the HTTP
	// transport when non-empty. Stdio transport never authenticates.
	AuthSecret string
}

// Server hosts the MCP server bound to an in-process calculator service.
type Server struct {
	mcpServer *mcp.Server
	calc      *app.Service
}

// New creates a configured MCP server with all calculator tools and
// resources registered.
func New(calcService *app.Service) (*Server, error) {
	if calcService == nil {
		return nil, fmt.Errorf("calculator service is required")
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{
		CompletionHandler:  completionHandler,
		SubscribeHandler:   resourceSubscribeHandler,
		UnsubscribeHandler: resourceUnsubscribeHandler,
	})

	server := &Server{mcpServer: mcpServer, calc: calcService}
	notify := server.notifyResourceUpdated

	mcp.AddTool(mcpServer, domain.SessionCreateTool(), domain.SessionCreateHandler(calcService, notify))
	mcp.AddTool(mcpServer, domain.SessionListTool(), domain.SessionListHandler(calcService))
	mcp.AddTool(mcpServer, domain.SessionDeleteTool(), domain.SessionDeleteHandler(calcService, notify))
	mcp.AddTool(mcpServer, domain.PressTool(), domain.PressHandler(calcService, notify))
	mcp.AddTool(mcpServer, domain.DisplayTool(), domain.DisplayHandler(calcService))
	mcp.AddTool(mcpServer, domain.ClearTool(), domain.ClearHandler(calcService, notify))

	mcpServer.AddResource(domain.SessionsResource(), domain.SessionsResourceHandler(calcService))

	return server, nil
}

// notifyResourceUpdated pushes a resource-updated notification to clients.
func (s *Server) notifyResourceUpdated(ctx context.Context, uri string) {
	if s == nil || s.mcpServer == nil || strings.TrimSpace(uri) == "" {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	// Subscription errors are expected when no client is subscribed.
	_ = s.mcpServer.ResourceUpdated(ctx, &mcp.ResourceUpdatedNotificationParams{URI: uri})
}

// completionHandler handles completion/complete requests with empty results.
// Tool arguments are free-form key sequences, so there is nothing useful to
// complete yet.
func completionHandler(ctx context.Context, req *mcp.CompleteRequest) (*mcp.CompleteResult, error) {
	return &mcp.CompleteResult{
		Completion: mcp.CompletionResultDetails{
			Values: []string{},
		},
	}, nil
}

// resourceSubscribeHandler accepts resource subscriptions with a valid URI.
func resourceSubscribeHandler(_ context.Context, req *mcp.SubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("resource uri is required")
	}
	return nil
}

// resourceUnsubscribeHandler accepts resource unsubscriptions with a valid URI.
func resourceUnsubscribeHandler(_ context.Context, req *mcp.UnsubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("resource uri is required")
	}
	return nil
}

// Run creates a server over the given calculator service and blocks until
// context cancellation. It is transport-agnostic so startup can choose stdio
// for local tools and HTTP for browser/remote integrations.
func Run(ctx context.Context, calcService *app.Service, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}

	server, err := New(calcService)
	if err != nil {
		return err
	}

	switch cfg.Transport {
	case TransportStdio:
		return server.serveWithTransport(ctx, &mcp.StdioTransport{})
	case TransportHTTP:
		httpTransport := NewHTTPTransport(cfg, server.mcpServer)
		return httpTransport.Start(ctx)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// serveWithTransport starts the MCP server using the provided transport.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
