package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kalambet/solaces/internal/api"
	"github.com/kalambet/solaces/internal/astra"
	"github.com/kalambet/solaces/internal/briefing"
	"github.com/kalambet/solaces/internal/config"
	"github.com/kalambet/solaces/internal/gateway"
	"github.com/kalambet/solaces/internal/memory"
	"github.com/kalambet/solaces/internal/oracle"
	"github.com/kalambet/solaces/internal/proxy"
	"github.com/kalambet/solaces/internal/refresh"
	"github.com/kalambet/solaces/internal/storage"
	"github.com/kalambet/solaces/internal/systems"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the solaces server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		withMCP, _ := cmd.Flags().GetBool("mcp")
		return runServer(cmd.Context(), withMCP)
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running solaces server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show solaces server and device status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus(cmd.Context())
	},
}

func init() {
	startCmd.Flags().Bool("mcp", false, "also serve MCP over stdin/stdout")
}

func pidFilePath(dataDir string) string {
	return filepath.Join(dataDir, "solaces.pid")
}

func writePIDFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func readPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func removePIDFile(path string) {
	os.Remove(path)
}

// pageStore is what every backend provides to the pages and the purge.
type pageStore interface {
	api.Store
	io.Closer
}

func openStore(cfg config.StorageConfig) (pageStore, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		return storage.NewRedisStore(cfg.RedisURL)
	case config.BackendMemory:
		return storage.NewMemory(), nil
	default:
		return storage.Open(cfg.DataDir)
	}
}

func logLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func runServer(parent context.Context, withMCP bool) error {
	fmt.Fprintf(os.Stderr, "solaces version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(cfg.Log.Level)})))

	apiToken, err := config.GetAPIToken(config.NewKeychain())
	if err != nil {
		return fmt.Errorf("initializing API token: %w", err)
	}
	slog.Info("API bearer token available")

	// Refuse to start twice on the same port.
	pidPath := pidFilePath(cfg.Storage.DataDir)
	healthURL := fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Server.Port)
	healthClient := &http.Client{Timeout: 2 * time.Second}
	if resp, err := healthClient.Get(healthURL); err == nil {
		resp.Body.Close()
		if pid, pidErr := readPIDFile(pidPath); pidErr == nil {
			printWarning("solaces is already running (PID %d)", pid)
			return fmt.Errorf("server already running (PID %d)", pid)
		}
		printWarning("solaces is already running on port %d", cfg.Server.Port)
		return fmt.Errorf("server already running on port %d", cfg.Server.Port)
	}
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer removePIDFile(pidPath)

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg.Storage)
	if err != nil {
		return fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing storage: %v\n", err)
		}
	}()
	slog.Info("storage opened", "backend", cfg.Storage.Backend)

	scenes, err := astra.LoadScenes(cfg.Scenes.File)
	if err != nil {
		return fmt.Errorf("loading scenes: %w", err)
	}

	gw := gateway.New(gateway.Options{
		BaseURL:   cfg.Gateway.BaseURL,
		APIKey:    cfg.Gateway.APIKey,
		KeyHeader: cfg.Gateway.KeyHeader,
		Timeout:   cfg.Gateway.Timeout,
	})
	ctrl := astra.NewController(store, gw, scenes)

	proxyHandler, err := proxy.NewHandler(proxy.Options{
		Prefix:      cfg.Proxy.Prefix,
		BaseURL:     cfg.Gateway.BaseURL,
		KeyHeader:   cfg.Gateway.KeyHeader,
		APIKey:      cfg.Gateway.APIKey,
		AllowOrigin: cfg.Proxy.AllowOrigin,
	})
	if err != nil {
		return fmt.Errorf("building gateway proxy: %w", err)
	}

	sys := systems.NewManager(store)
	journal := oracle.NewJournal(store)
	keep := memory.NewKeep(store)

	g, gctx := errgroup.WithContext(ctx)

	loop := refresh.NewLoop(gw, ctrl, cfg.Gateway.PollInterval)
	handle := loop.Start(gctx)

	appHandler := api.NewHandler(api.Deps{
		Controller:  ctrl,
		Refresh:     handle,
		Systems:     sys,
		Journal:     journal,
		Keep:        keep,
		Board:       briefing.NewBoard(store),
		Store:       store,
		Proxy:       proxyHandler,
		ProxyPrefix: cfg.Proxy.Prefix,
		Token:       apiToken,
		OracleHost:  cfg.Redirect.OracleHost,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: appHandler,
	}

	g.Go(func() error {
		fmt.Fprintf(os.Stderr, "solaces listening on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		fmt.Fprintln(os.Stderr, "shutting down...")
		handle.Cancel()
		<-handle.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if withMCP {
		mcpSrv := api.NewMCPServer(api.MCPDeps{
			Controller: ctrl,
			Systems:    sys,
			Journal:    journal,
			Keep:       keep,
			Store:      store,
		})
		stdioSrv := server.NewStdioServer(mcpSrv)
		g.Go(func() error {
			slog.Info("MCP server started (stdio transport)")
			if err := stdioSrv.Listen(gctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("MCP stdio server: %w", err)
			}
			return nil
		})
	}

	return g.Wait()
}

func stopServer() error {
	cfg, err := config.Load()
	if err != nil {
		printError("could not load config: %v", err)
		return err
	}

	pidPath := pidFilePath(cfg.Storage.DataDir)
	pid, err := readPIDFile(pidPath)
	if err != nil {
		printError("solaces is not running (no PID file)")
		return fmt.Errorf("not running: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		printError("could not find process %d", pid)
		return err
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		printError("could not stop solaces (PID %d): %v", pid, err)
		removePIDFile(pidPath)
		return err
	}

	printSuccess("Sent stop signal to solaces (PID %d)", pid)
	return nil
}

func showStatus(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		// Still show partial status even if config fails.
		printError("config error: %v", err)
		return nil
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Server.Port))
	running := false
	if err != nil {
		printStatus("Server", "stopped")
	} else {
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			running = true
			printStatus("Server", "running on port %d", cfg.Server.Port)
		} else {
			printStatus("Server", "error (HTTP %d)", resp.StatusCode)
		}
	}

	printStatus("Storage", "%s", cfg.Storage.Backend)
	printStatus("Gateway", "%s", cfg.Gateway.BaseURL)

	if running {
		if c, err := newAPIClient(); err == nil {
			if devs, err := fetchDevices(ctx, c); err == nil {
				switch {
				case devs.Loading:
					printStatus("Devices", "loading")
				case devs.LoadError != "":
					printStatus("Devices", "%d cached (%s)", len(devs.Devices), devs.LoadError)
				default:
					printStatus("Devices", "%d", len(devs.Devices))
				}
				if devs.LastRefresh != nil {
					printStatus("Last refresh", "%s", ago(*devs.LastRefresh))
				}
			}
		}
	}

	printStatus("Data dir", "%s", cfg.Storage.DataDir)
	return nil
}
