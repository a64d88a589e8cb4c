package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/timeharbor/timeharbor/internal/config"
	"github.com/timeharbor/timeharbor/internal/domain/correction"
	"github.com/timeharbor/timeharbor/internal/domain/report"
	"github.com/timeharbor/timeharbor/internal/domain/session"
	"github.com/timeharbor/timeharbor/internal/mcp"
	"github.com/timeharbor/timeharbor/internal/rpc"
	"github.com/timeharbor/timeharbor/internal/sqlite"
	"github.com/timeharbor/timeharbor/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for the protocol.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	sessionRepo := sqlite.NewSessionRepository(db)
	ticketRepo := sqlite.NewTicketRepository(db)
	teamRepo := sqlite.NewTeamRepository(db)
	userRepo := sqlite.NewUserRepository(db)

	sessionSvc := session.NewService(sessionRepo, session.SystemClock(), logger)
	correctionSvc := correction.NewService(sessionRepo, logger)
	reportSvc := report.NewService(sessionRepo, ticketRepo, teamRepo, userRepo, logger)

	handler := rpc.NewHandler(sessionSvc, correctionSvc, reportSvc)
	resolver := &apiKeyResolver{db: db}

	mcpServer := mcp.NewServer(mcp.Config{
		Handler:      handler,
		Resolver:     resolver,
		AuthEnabled:  cfg.Auth.Enabled,
		DefaultActor: cfg.Auth.DefaultWorker,
		Logger:       logger,
	})

	if cfg.Transport.Mode == "stdio" {
		runStdioMode(logger, mcpServer)
		return
	}

	runHTTPMode(logger, cfg, handler, resolver, mcpServer)
}

func runStdioMode(logger *slog.Logger, server *sdkmcp.Server) {
	logger.Info("starting stdio transport")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	// Run blocks until stdin closes or the context is canceled.
	if err := server.Run(ctx, &sdkmcp.StdioTransport{}); err != nil {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

func runHTTPMode(logger *slog.Logger, cfg config.Config, handler *rpc.Handler, resolver transport.ActorResolver, mcpServer *sdkmcp.Server) {
	var middleware func(http.Handler) http.Handler
	if cfg.Auth.Enabled {
		middleware = transport.AuthMiddleware(resolver)
	} else if cfg.Auth.DefaultWorker != "" {
		middleware = transport.DefaultActorMiddleware(cfg.Auth.DefaultWorker)
	}

	router := transport.NewServer(handler, middleware)

	// MCP over streamable HTTP rides on the same listener; the MCP
	// server carries its own auth middleware.
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: 30 * time.Minute},
	)
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/", mcpHandler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr, "auth", cfg.Auth.Enabled)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// apiKeyResolver maps hashed bearer tokens to worker ids.
type apiKeyResolver struct {
	db *sqlite.DB
}

func (r *apiKeyResolver) ResolveActor(ctx context.Context, token string) (string, error) {
	hash := hashToken(token)
	var userID string
	err := r.db.QueryRowContext(ctx, `SELECT user_id FROM api_keys WHERE key_hash = ?`, hash).Scan(&userID)
	if err != nil || userID == "" {
		return "", fmt.Errorf("unauthorized: invalid token")
	}
	return userID, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
