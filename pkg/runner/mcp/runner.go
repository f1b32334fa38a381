package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"tableflip.dev/carry/pkg/app"
	"tableflip.dev/carry/pkg/feed"
)

// Transport selects the mechanism used to expose the MCP server.
type Transport string

const (
	// TransportHTTP serves MCP via the streamable HTTP transport.
	TransportHTTP Transport = "http"
	// TransportStdio serves MCP over stdio.
	TransportStdio Transport = "stdio"
)

// ParseTransport accepts "http" or "stdio"; empty means http.
func ParseTransport(raw string) (Transport, error) {
	switch t := Transport(strings.ToLower(strings.TrimSpace(raw))); t {
	case "", TransportHTTP:
		return TransportHTTP, nil
	case TransportStdio:
		return t, nil
	default:
		return "", fmt.Errorf("unsupported transport %q (expected http or stdio)", raw)
	}
}

// HTTPOptions configures the streamable HTTP transport.
type HTTPOptions struct {
	Host     string
	Port     int
	Path     string
	CertFile string
	KeyFile  string
}

func (o HTTPOptions) normalize() (HTTPOptions, error) {
	o.Host = strings.TrimSpace(o.Host)
	if o.Host == "" {
		o.Host = "127.0.0.1"
	}
	if o.Port < 0 || o.Port > 65535 {
		return o, fmt.Errorf("invalid http port %d", o.Port)
	}
	o.Path = strings.TrimSpace(o.Path)
	if !strings.HasPrefix(o.Path, "/") {
		o.Path = "/" + o.Path
	}
	if o.Path == "/" {
		o.Path = "/mcp"
	}
	o.CertFile, o.KeyFile = strings.TrimSpace(o.CertFile), strings.TrimSpace(o.KeyFile)
	if (o.CertFile == "") != (o.KeyFile == "") {
		return o, errors.New("both http tls cert and key must be provided")
	}
	return o, nil
}

func (o HTTPOptions) url(a net.Addr) string {
	scheme := "http"
	if o.CertFile != "" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s%s", scheme, a.String(), o.Path)
}

// Runner coordinates MCP server startup.
type Runner struct {
	App     *app.Service
	Name    string
	Version string

	// Feed, when set, delivers store changes to the rollover engine for as
	// long as the server runs.
	Feed   feed.Subscriber
	Logger *zap.Logger

	Transport Transport
	HTTP      HTTPOptions
}

// Run starts the Model Context Protocol server using stdio transport.
func Run(ctx context.Context, a *app.Service) error {
	r := Runner{
		App:       a,
		Transport: TransportStdio,
	}
	return r.Do(ctx)
}

func (r Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

// Server builds the MCP server with every tool and resource registered.
func (r Runner) Server() *server.MCPServer {
	name := r.Name
	if name == "" {
		name = "carry"
	}
	version := r.Version
	if version == "" {
		version = "dev"
	}

	srv := server.NewMCPServer(
		fmt.Sprintf("%s MCP", name),
		version,
		server.WithResourceCapabilities(false, false),
		server.WithToolCapabilities(false),
		server.WithInstructions("Read and edit journal pages. Creating a journal carries unfinished tasks forward from the previous one."),
		server.WithResourceRecovery(),
		server.WithRecovery(),
	)
	svc := NewService(r.App)
	registerResources(srv, svc)
	registerTools(srv, svc)
	return srv
}

// Do attaches the rollover engine to the feed and serves until ctx is done.
func (r Runner) Do(ctx context.Context) error {
	if r.App == nil {
		return errors.New("mcp runner requires an application service")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := r.watch(ctx); err != nil {
		return err
	}

	srv := r.Server()
	switch r.Transport {
	case "", TransportHTTP:
		return r.serveHTTP(ctx, srv)
	case TransportStdio:
		return server.ServeStdio(srv)
	default:
		return fmt.Errorf("unknown MCP transport %q", r.Transport)
	}
}

func (r Runner) serveHTTP(ctx context.Context, srv *server.MCPServer) error {
	opts, err := r.HTTP.normalize()
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle(opts.Path, server.NewStreamableHTTPServer(srv))
	httpSrv := &http.Server{Handler: mux}

	ln, err := net.Listen("tcp", net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port)))
	if err != nil {
		return err
	}
	r.logger().Info("mcp server listening", zap.String("url", opts.url(ln.Addr())))

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
		case <-stopped:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	if opts.CertFile != "" {
		err = httpSrv.ServeTLS(ln, opts.CertFile, opts.KeyFile)
	} else {
		err = httpSrv.Serve(ln)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (r Runner) watch(ctx context.Context) error {
	if r.Feed == nil || r.App.Rollover == nil {
		return nil
	}
	batches, err := r.Feed.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe to change feed: %w", err)
	}
	r.logger().Debug("rollover engine attached to change feed")
	go r.App.Rollover.Watch(ctx, batches)
	return nil
}
