package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roivaz/azure-devops-mcp/internal/config"
	"github.com/roivaz/azure-devops-mcp/internal/logging"
	"github.com/roivaz/azure-devops-mcp/internal/mcp"
)

func main() {
	root := &cobra.Command{
		Use:          "mcp-server",
		Short:        "Azure DevOps MCP server (work items and pull requests)",
		SilenceUsage: true,
		RunE:         run,
	}

	config.AddFlags(root.PersistentFlags())
	root.PersistentFlags().String("mcp-transport", "", "Transport: stdio or http (MCP_TRANSPORT)")
	root.PersistentFlags().String("host", "", "HTTP host when --mcp-transport=http")
	root.PersistentFlags().Int("port", 0, "HTTP port when --mcp-transport=http")

	config.Init(root)

	if err := root.Execute(); err != nil {
		log.Fatalf("mcp-server: %v", err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger := logging.New(logging.NewLevelLogger(config.LogLevel())).WithName("mcp-server")

	cfg, err := mcp.DefaultConfig(logger)
	if err != nil {
		return err
	}
	srv := mcp.New(cfg)

	switch config.Transport() {
	case config.TransportStdio:
		return srv.ServeStdio()
	case config.TransportHTTP:
		return serveHTTP(srv, logger)
	default:
		return fmt.Errorf("invalid transport %q (must be %s or %s)", config.Transport(), config.TransportStdio, config.TransportHTTP)
	}
}

func serveHTTP(srv *mcp.Server, logger logging.Logger) error {
	addr := config.Host() + ":" + strconv.Itoa(config.Port())
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("MCP server listening", "addr", addr, "endpoint", "/mcp/jsonrpc")
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return httpServer.Shutdown(ctx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}
