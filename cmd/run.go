package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayushhealth/ayushbot/internal/app"
	"github.com/ayushhealth/ayushbot/internal/config"
	"github.com/ayushhealth/ayushbot/internal/insight"
	"github.com/ayushhealth/ayushbot/internal/llm"
	"github.com/ayushhealth/ayushbot/internal/predictor"
	"github.com/ayushhealth/ayushbot/internal/store"
)

// wizardDeps is what both wizard front ends run on.
type wizardDeps struct {
	cfg       config.Config
	store     *store.Store
	client    predictor.Client
	explainer *insight.Explainer
}

// buildWizardDeps opens the store and builds the logged predictor client
// and, unless noAI is set, the explainer.
func buildWizardDeps(cmd *cobra.Command, noAI bool) (*wizardDeps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	eventRepo := st.EventRepo()
	d := &wizardDeps{
		cfg:   cfg,
		store: st,
		client: predictor.WithLogging(predictor.NewHTTPClient(cfg.BaseURL,
			predictor.WithToken(cfg.AccessToken),
			predictor.WithTimeout(cfg.HTTPTimeout),
		), eventRepo),
	}
	if !noAI {
		d.explainer = newExplainer(cmd.Context(), eventRepo)
	}
	return d, nil
}

func (d *wizardDeps) Close() error {
	return d.store.Close()
}

// newExplainer returns nil when no LLM provider is configured; the wizard
// then skips the insight.
func newExplainer(ctx context.Context, repo store.EventRepo) *insight.Explainer {
	cfg, ok := llm.Resolve()
	if !ok {
		fmt.Fprintln(os.Stderr, "LLM provider not configured; AI insights will be unavailable.")
		return nil
	}
	provider, err := llm.NewProvider(ctx, cfg, repo)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "AI insights will be unavailable.")
		return nil
	}
	return insight.New(provider, insight.WithTimeout(cfg.Timeout))
}

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	noAI, _ := cmd.Flags().GetBool("no-ai")
	noSplash, _ := cmd.Flags().GetBool("no-splash")

	d, err := buildWizardDeps(cmd, noAI)
	if err != nil {
		return err
	}
	defer d.Close()

	return app.Run(app.Options{
		Client:      d.client,
		EventRepo:   d.store.EventRepo(),
		History:     d.store.HistoryRepo(),
		Explainer:   d.explainer,
		TypingDelay: d.cfg.TypingDelay,
		SkipSplash:  noSplash,
	})
}
