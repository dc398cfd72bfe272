package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/mpcoutinho/vitae/internal/api"
	"github.com/mpcoutinho/vitae/internal/config"
	"github.com/mpcoutinho/vitae/internal/content"
	"github.com/mpcoutinho/vitae/internal/prefs"
	"github.com/mpcoutinho/vitae/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the vitae server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		withMCP, _ := cmd.Flags().GetBool("mcp")
		return runServer(withMCP)
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running vitae server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show vitae system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus()
	},
}

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Ask the running server to reload content from disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		return reloadContent()
	},
}

func init() {
	serveCmd.Flags().Bool("mcp", false, "also expose the MCP server on stdio")
}

func pidFilePath(dataDir string) string {
	return filepath.Join(dataDir, "vitae.pid")
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

func logLevelFrom(s string) slog.Level {
	switch strings.ToLower(s) {
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

func runServer(withMCP bool) error {
	fmt.Fprintf(os.Stderr, "vitae version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevelFrom(cfg.Log.Level),
	})))

	// Check if a server is already running via its health endpoint.
	pidPath := pidFilePath(cfg.Storage.DataDir)
	healthURL := fmt.Sprintf("http://%s:%d/health", cfg.Server.Host, cfg.Server.Port)
	healthClient := &http.Client{Timeout: 2 * time.Second}
	if resp, err := healthClient.Get(healthURL); err == nil {
		resp.Body.Close()
		if pid, pidErr := readPIDFile(pidPath); pidErr == nil {
			printWarning("vitae is already running (PID %d)", pid)
			return fmt.Errorf("server already running (PID %d)", pid)
		}
		printWarning("vitae is already running on port %d", cfg.Server.Port)
		return fmt.Errorf("server already running on port %d", cfg.Server.Port)
	}
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer removePIDFile(pidPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing storage: %v\n", err)
		}
	}()

	// Load content and start the reload watcher.
	lib := content.NewLibrary(cfg.Content.Dir, cfg.LanguageList())
	if err := lib.Load(ctx); err != nil {
		return fmt.Errorf("loading content: %w", err)
	}
	for lang, notes := range lib.Notes() {
		for _, n := range notes {
			slog.Warn("content note", "lang", lang, "note", n)
		}
	}
	poll, err := cfg.PollInterval()
	if err != nil {
		return err
	}
	go content.NewWatcher(lib, poll).Run(ctx)

	prefsMgr := prefs.NewManager(store, cfg.LanguageList(), cfg.Site.DefaultLanguage)

	// Compose the top-level router: public site routes plus, when a
	// token is configured, the admin routes.
	topRouter := chi.NewRouter()
	topRouter.Mount("/", api.NewSiteHandler(api.SiteDeps{
		Library: lib,
		Prefs:   prefsMgr,
		Views:   store,
		Logger:  slog.Default(),
	}))
	if cfg.Admin.Token != "" {
		topRouter.Mount("/admin", api.NewAdminHandler(api.AdminDeps{
			Library: lib,
			Stats:   store,
			Token:   cfg.Admin.Token,
			Logger:  slog.Default(),
		}))
	} else {
		slog.Warn("VITAE_ADMIN_TOKEN not set, admin endpoints disabled")
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: topRouter,
	}

	if withMCP {
		mcpSrv := api.NewMCPServer(api.MCPDeps{
			Library: lib,
			Prefs:   prefsMgr,
			Version: version,
		})
		stdioSrv := server.NewStdioServer(mcpSrv)
		go func() {
			if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("MCP stdio server error", "error", err)
			}
		}()
		slog.Info("MCP server started (stdio transport)")
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "vitae listening on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "shutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
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
		printError("vitae is not running (no PID file)")
		return fmt.Errorf("not running: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		printError("could not find process %d", pid)
		return err
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		printError("could not stop vitae (PID %d): %v", pid, err)
		removePIDFile(pidPath)
		return err
	}

	printSuccess("Sent stop signal to vitae (PID %d)", pid)
	return nil
}

func showStatus() error {
	cfg, err := config.Load()
	if err != nil {
		printError("config error: %v", err)
		return nil
	}

	client, err := newAPIClient()
	if err != nil {
		return err
	}

	resp, err := client.get(context.Background(), "/health")
	running := false
	if err != nil {
		printStatus("Server", "stopped")
	} else {
		resp.Body.Close()
		if resp.StatusCode == 200 {
			running = true
			printStatus("Server", "running on %s:%d", cfg.Server.Host, cfg.Server.Port)
		} else {
			printStatus("Server", "error (HTTP %d)", resp.StatusCode)
		}
	}

	if running {
		langResp, err := client.get(context.Background(), "/api/languages")
		if err == nil {
			var langs struct {
				Languages []string `json:"languages"`
				Default   string   `json:"default"`
			}
			if decodeJSON(langResp, &langs) == nil {
				printStatus("Languages", "%s (default %s)", strings.Join(langs.Languages, ", "), langs.Default)
			}
		}
	} else {
		printStatus("Languages", "%s (default %s)", cfg.Site.Languages, cfg.Site.DefaultLanguage)
	}

	printStatus("Content dir", "%s", cfg.Content.Dir)
	printStatus("Data dir", "%s", cfg.Storage.DataDir)
	return nil
}

func reloadContent() error {
	client, err := newAPIClient()
	if err != nil {
		return err
	}
	if client.token == "" {
		return fmt.Errorf("VITAE_ADMIN_TOKEN is not set; the reload endpoint requires it")
	}

	resp, err := client.post(context.Background(), "/admin/reload", nil)
	if err != nil {
		return err
	}

	var result struct {
		Status string              `json:"status"`
		Notes  map[string][]string `json:"notes"`
	}
	if err := decodeJSON(resp, &result); err != nil {
		return err
	}

	printSuccess("Content reloaded")
	for lang, notes := range result.Notes {
		for _, n := range notes {
			printWarning("[%s] %s", lang, n)
		}
	}
	return nil
}
