package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rmorales/opotutor/internal/app"
	"github.com/rmorales/opotutor/internal/casegen"
	"github.com/rmorales/opotutor/internal/chat"
	"github.com/rmorales/opotutor/internal/llm"
	"github.com/rmorales/opotutor/internal/progress"
	"github.com/rmorales/opotutor/internal/store"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo())
	if err != nil {
		return fmt.Errorf("no hay proveedor de IA configurado (define GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY u OPENROUTER_API_KEY): %w", err)
	}

	zap.L().Info("session start",
		zap.String("model", provider.ModelID()),
		zap.String("db", dbPath),
	)

	deps := app.Deps{
		Provider:    provider,
		Store:       st,
		Generator:   casegen.New(provider, casegen.DefaultConfig()),
		ChatManager: chat.NewManager(provider, st.StateRepo()),
		ProgressSvc: progress.NewService(st.ProgressRepo()),
	}
	return app.Run(deps)
}

// openServices is shared by the non-TUI subcommands that need the store
// and provider.
func openServices(cmd *cobra.Command) (*store.Store, llm.Provider, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	provider, err := llm.NewProviderFromEnv(cmd.Context(), st.EventRepo())
	if err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("no AI provider configured: %w", err)
	}
	return st, provider, nil
}
