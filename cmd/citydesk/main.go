// Command citydesk is a terminal chat client for a locale-scoped city
// information agent backed by the Gemini API.
//
// Usage:
//
//	GOOGLE_GENAI_USE_VERTEXAI=False GOOGLE_API_KEY=... citydesk [flags]
//	GOOGLE_GENAI_USE_VERTEXAI=True GOOGLE_CLOUD_PROJECT=... GOOGLE_CLOUD_LOCATION=... citydesk [flags]
//
// Flags:
//
//	-model string      Model ID (default: from agent declaration)
//	-agent string      Path to agent declaration YAML (default: built-in declaration)
//	-session string    Path to session file to resume
//	-debug-log string  Path to a debug log file (default: logging disabled)
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/citydesk/citydesk"
	"github.com/citydesk/citydesk/agent"
	"github.com/citydesk/citydesk/config"
	"github.com/citydesk/citydesk/gemini"
	"github.com/citydesk/citydesk/jsonstore"
	"github.com/citydesk/citydesk/toolkit"
	"github.com/citydesk/citydesk/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "citydesk: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		model       = flag.String("model", "", "Model ID (default: from agent declaration)")
		agentPath   = flag.String("agent", "", "Path to agent declaration YAML")
		sessionPath = flag.String("session", "", "Path to session file to resume")
		logPath     = flag.String("debug-log", "", "Path to a debug log file")
	)
	flag.Parse()

	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Credentials are resolved exactly once, before anything user-facing
	// starts, and passed down as a value. A configuration error aborts here.
	creds, err := config.FromEnv()
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(*logPath)
	if err != nil {
		return err
	}
	defer closeLog()

	ag, err := buildAgent(*agentPath)
	if err != nil {
		return err
	}

	provider, err := gemini.New(ctx, creds)
	if err != nil {
		return err
	}

	session, err := loadOrCreateSession(*sessionPath)
	if err != nil {
		return err
	}

	loop := agent.New(provider, ag)

	modelID := *model
	agentFn := func(ctx context.Context, s *citydesk.Session, onResult func(string, citydesk.Envelope)) error {
		opts := []agent.RunOption{
			agent.WithLogger(logger),
			agent.WithResultObserver(onResult),
		}
		if modelID != "" {
			opts = append(opts, agent.WithModel(modelID))
		}
		return loop.Run(ctx, s, opts...)
	}

	m := tui.New(agentFn, &session, ag.Name(), tui.DefaultTheme())
	if err := tui.Run(ctx, m); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}

	// Save session on exit.
	if *sessionPath != "" {
		if err := jsonstore.Save(*sessionPath, session); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
	} else if len(session.Messages) > 0 {
		savePath := defaultSessionPath(session.ID)
		if err := jsonstore.Save(savePath, session); err != nil {
			return fmt.Errorf("auto-save session: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Session saved to %s\n", savePath)
	}

	return nil
}

// buildAgent assembles the agent from a declaration: registry from the
// declared built-in tools, then construction-time validation of the whole
// binding.
func buildAgent(declPath string) (*citydesk.Agent, error) {
	decl := config.DefaultDeclaration()
	if declPath != "" {
		var err error
		decl, err = config.LoadDeclaration(declPath)
		if err != nil {
			return nil, err
		}
	}

	tools, err := toolkit.ByName(decl.Tools...)
	if err != nil {
		return nil, fmt.Errorf("declaration %q: %w", decl.Name, err)
	}
	registry, err := citydesk.NewRegistry(tools...)
	if err != nil {
		return nil, err
	}
	return citydesk.NewAgent(citydesk.AgentConfig{
		Name:        decl.Name,
		Model:       decl.Model,
		Description: decl.Description,
		Instruction: decl.Instruction,
		Registry:    registry,
	})
}

func newLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open debug log: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { f.Close() }, nil
}

func loadOrCreateSession(sessionPath string) (citydesk.Session, error) {
	if sessionPath != "" {
		s, err := jsonstore.Load(sessionPath)
		if err != nil {
			return citydesk.Session{}, fmt.Errorf("load session: %w", err)
		}
		return s, nil
	}
	now := time.Now()
	return citydesk.Session{
		ID:        fmt.Sprintf("%d", now.UnixNano()),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func defaultSessionPath(id string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".citydesk", "sessions", id+".json")
}
