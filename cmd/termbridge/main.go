package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/PiranhaCodes/termbridge/internal/api"
	"github.com/PiranhaCodes/termbridge/internal/config"
	"github.com/PiranhaCodes/termbridge/internal/logging"
	"github.com/PiranhaCodes/termbridge/internal/pty"
)

// expandPath expands the tilde (~) character to the user's home directory.
func expandPath(path string) (string, error) {
	if len(path) == 0 {
		return path, nil
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		if path[1] == '/' || path[1] == '\\' {
			return filepath.Join(homeDir, path[2:]), nil
		}
	}

	return path, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "termbridge: %v\n", err)
		os.Exit(1)
	}

	socketPathRaw := flag.String("socket", cfg.Socket.Path, "Path to Unix control socket")
	httpAddr := flag.String("http", cfg.HTTP.Addr, "Listen address for websocket attach")
	flag.Parse()

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		logger = logging.NewDefault()
	}
	defer logger.Sync()

	socketPath, err := expandPath(*socketPathRaw)
	if err != nil {
		logger.Fatal("failed to expand socket path", zap.Error(err))
	}

	if err := os.MkdirAll(filepath.Dir(socketPath), 0755); err != nil {
		logger.Fatal("failed to create socket directory", zap.Error(err))
	}

	manager := pty.NewManager()
	server := api.NewServer(socketPath, manager, api.Defaults{
		Cols:  cfg.Terminal.Cols,
		Rows:  cfg.Terminal.Rows,
		Shell: cfg.Terminal.Shell,
	}, logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("control server failed", zap.Error(err))
		}
	}()

	var httpServer *http.Server
	if cfg.HTTP.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/attach/", &api.AttachHandler{Manager: manager, Logger: logger})
		httpServer = &http.Server{Addr: *httpAddr, Handler: mux}
		go func() {
			logger.Info("attach listener started", zap.String("addr", *httpAddr))
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatal("attach listener failed", zap.Error(err))
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	manager.Shutdown()
	server.Stop()
	if httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(ctx)
	}
	logger.Info("shutdown complete")
}
