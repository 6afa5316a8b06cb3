package main

import (
	"context"
	"encoding/json"
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

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kalambet/scout/internal/agents"
	"github.com/kalambet/scout/internal/api"
	"github.com/kalambet/scout/internal/config"
	"github.com/kalambet/scout/internal/conversation"
	"github.com/kalambet/scout/internal/extract"
	"github.com/kalambet/scout/internal/llm"
	"github.com/kalambet/scout/internal/match"
	"github.com/kalambet/scout/internal/proposal"
	"github.com/kalambet/scout/internal/session"
	"github.com/kalambet/scout/internal/storage"
)

const cleanupInterval = 6 * time.Hour

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the scout server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running scout server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show scout system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus()
	},
}

func pidFilePath(dataDir string) string {
	return filepath.Join(dataDir, "scout.pid")
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

// buildGenerators returns the chat generator and the extraction generator
// for the configured provider. Ollama gets a readiness check with model
// pulls; the extraction model may differ from the chat model there.
func buildGenerators(ctx context.Context, cfg config.Config) (llm.Generator, llm.Generator, error) {
	switch cfg.LLM.Provider {
	case "ollama":
		chat := llm.NewOllama(cfg.Ollama.BaseURL, cfg.Ollama.ChatModel)
		if err := llm.EnsureReady(ctx, chat, cfg.Ollama.ChatModel, cfg.Ollama.ExtractModel, os.Stderr); err != nil {
			return nil, nil, err
		}
		ext := llm.Generator(chat)
		if cfg.Ollama.ExtractModel != cfg.Ollama.ChatModel {
			ext = llm.NewOllama(cfg.Ollama.BaseURL, cfg.Ollama.ExtractModel)
		}
		return chat, ext, nil
	case "openrouter":
		gen := llm.NewOpenRouter(cfg.Proxy.OpenRouterAPIKey, cfg.Proxy.DefaultModel)
		return gen, gen, nil
	case "mock":
		gen := llm.NewMock()
		return gen, gen, nil
	default:
		return nil, nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "scout version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	token := cfg.Server.Token
	if token == "" {
		token = uuid.NewString()
		printWarning("no server.token configured; generated ephemeral API token %s", token)
	}

	// Refuse to start twice. The health endpoint is the source of truth;
	// the PID file just names the culprit.
	pidPath := pidFilePath(cfg.Storage.DataDir)
	healthURL := fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Server.Port)
	healthClient := &http.Client{Timeout: 2 * time.Second}
	if resp, err := healthClient.Get(healthURL); err == nil {
		resp.Body.Close()
		if pid, pidErr := readPIDFile(pidPath); pidErr == nil {
			printWarning("scout is already running (PID %d)", pid)
			return fmt.Errorf("server already running (PID %d)", pid)
		}
		printWarning("scout is already running on port %d", cfg.Server.Port)
		return fmt.Errorf("server already running on port %d", cfg.Server.Port)
	}
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer removePIDFile(pidPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	chatGen, extractGen, err := buildGenerators(ctx, cfg)
	if err != nil {
		return err
	}
	slog.Info("llm backend ready", "provider", chatGen.Name())

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing storage: %v\n", err)
		}
	}()

	matcher := match.New()
	matcher.Threshold = cfg.Matcher.Threshold
	matcher.TopK = cfg.Matcher.TopK

	extractor := extract.NewHybrid(extract.NewLLM(extractGen), extract.NewRules())
	registry := agents.NewRegistry(chatGen, extractor, matcher, proposal.NewGenerator(chatGen))
	svc := conversation.NewService(session.NewManager(nil), store, registry)

	handler := api.NewHandler(api.Deps{
		Service:    svc,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	mcpSrv := api.NewMCPServer(api.MCPDeps{Service: svc})
	stdioSrv := server.NewStdioServer(mcpSrv)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		fmt.Fprintf(os.Stderr, "scout listening on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		fmt.Fprintln(os.Stderr, "shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		if err := stdioSrv.Listen(gctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("MCP stdio server error", "error", err)
		}
		return nil
	})
	slog.Info("MCP server started (stdio transport)")

	g.Go(func() error {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if _, err := svc.CleanupOldSessions(cfg.Sessions.RetentionDays); err != nil {
					slog.Warn("session cleanup failed", "error", err)
				}
			}
		}
	})

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
		printError("scout is not running (no PID file)")
		return fmt.Errorf("not running: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		printError("could not find process %d", pid)
		return err
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		printError("could not stop scout (PID %d): %v", pid, err)
		removePIDFile(pidPath)
		return err
	}

	printSuccess("Sent stop signal to scout (PID %d)", pid)
	return nil
}

func showStatus() error {
	cfg, err := config.Load()
	if err != nil {
		printError("config error: %v", err)
		return nil
	}

	serverURL := fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port)
	client := &http.Client{Timeout: 2 * time.Second}

	resp, err := client.Get(serverURL + "/health")
	serverUp := false
	if err != nil {
		printStatus("Server", "stopped")
	} else {
		resp.Body.Close()
		if resp.StatusCode == 200 {
			serverUp = true
			printStatus("Server", "running on port %d", cfg.Server.Port)
		} else {
			printStatus("Server", "error (HTTP %d)", resp.StatusCode)
		}
	}

	printStatus("LLM provider", "%s", cfg.LLM.Provider)
	if cfg.LLM.Provider == "ollama" {
		ollamaResp, err := client.Get(cfg.Ollama.BaseURL + "/api/version")
		if err != nil {
			printStatus("Ollama", "not running")
		} else {
			ollamaResp.Body.Close()
			printStatus("Ollama", "running at %s", cfg.Ollama.BaseURL)
		}
		printStatus("Chat model", "%s", cfg.Ollama.ChatModel)
		printStatus("Extract model", "%s", cfg.Ollama.ExtractModel)
	}

	if serverUp && cfg.Server.Token != "" {
		statusClient := &apiClient{
			baseURL:    serverURL,
			token:      cfg.Server.Token,
			httpClient: client,
		}
		resp, err := statusClient.get(context.Background(), "/v1/sessions?days=7")
		if err == nil {
			var sessions struct {
				Count int `json:"count"`
			}
			if json.NewDecoder(resp.Body).Decode(&sessions) == nil {
				printStatus("Sessions (7d)", "%d", sessions.Count)
			}
			resp.Body.Close()
		}
	}

	printStatus("Data dir", "%s", cfg.Storage.DataDir)
	return nil
}
