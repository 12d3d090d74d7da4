package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/internal/config"
	"github.com/goliatone/go-formwizard/internal/logging"
	"github.com/goliatone/go-formwizard/pkg/assessment"
	"github.com/goliatone/go-formwizard/pkg/auth"
	"github.com/goliatone/go-formwizard/pkg/definition"
	"github.com/goliatone/go-formwizard/pkg/orchestrator"
	"github.com/goliatone/go-formwizard/pkg/persistence"
	"github.com/goliatone/go-formwizard/pkg/persistence/sqlite"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// app carries the dependencies shared by every command. Fields above the
// blank line are set before Execute; the rest are filled by setup.
type app struct {
	out      io.Writer
	envFiles []string
	driver   tui.PromptDriver
	provider assessment.Provider

	cfg    config.Config
	logger *zap.Logger
	store  persistence.Store
	closer io.Closer
	orch   *orchestrator.Orchestrator
	auth   *auth.Client
}

func newApp(out io.Writer) *app {
	return &app{out: out, logger: zap.NewNop()}
}

func (a *app) setup(*cobra.Command) error {
	cfg, err := config.Load(a.envFiles...)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	a.logger = logger

	store, closer, err := openStore(cfg)
	if err != nil {
		return err
	}
	a.store, a.closer = store, closer
	a.logger.Debug("store opened", zap.String("kind", string(cfg.Store)))

	if a.provider == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		a.provider = assessment.NewRandomProvider(seed)
	}

	a.orch = orchestrator.New(
		orchestrator.WithStore(store),
		orchestrator.WithLogger(logger),
		orchestrator.WithSubmitter(definition.TeamRegistration, a.acknowledge(
			"Team registered successfully",
			"Your team has been registered. You can now proceed to the next step.",
		)),
		orchestrator.WithSubmitter(definition.Onboarding, a.acknowledge(
			"Onboarding complete",
			"Your team profile has been saved.",
		)),
		orchestrator.WithSubmitter(definition.IdeaSubmission, assessment.SubmitIdea(a.provider, a.printAssessment)),
		orchestrator.WithEngineOptions(wizard.WithSanitizer(render.StrictSanitizer())),
	)

	a.auth, err = auth.NewClient(cfg.AuthURL,
		auth.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		auth.WithTokenStore(auth.StoreTokens(store, auth.TokenKey)),
		auth.WithLogger(logger.Named("auth")),
	)
	return err
}

func (a *app) teardown(*cobra.Command) error {
	_ = a.logger.Sync()
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

func (a *app) runner() (*tui.Runner, error) {
	return tui.NewRunner(
		tui.WithPromptDriver(a.prompts()),
		tui.WithLogger(a.logger.Named("tui")),
	)
}

func (a *app) prompts() tui.PromptDriver {
	if a.driver != nil {
		return a.driver
	}
	return tui.NewSurveyDriver(a.out)
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *app) acknowledge(title, description string) wizard.Submitter {
	return wizard.SubmitterFunc(func(_ context.Context, sub wizard.Submission) error {
		a.printf("%s\n%s\n\n", title, description)
		return a.printRecord(sub)
	})
}

func (a *app) printAssessment(idea assessment.Idea, result assessment.Result) {
	a.printf("Idea submitted successfully\n")
	a.printf("Your idea has been submitted and assessed by our AI.\n\n")
	a.printf("Assessment for %q\n", idea.Title)
	a.printf("  Novelty:          %5.1f%%\n", result.Novelty)
	a.printf("  Market Relevance: %5.1f%%\n", result.MarketRelevance)
	a.printf("  Feasibility:      %5.1f%%\n", result.Feasibility)
	if result.IsExisting {
		a.printf("\nOur AI has detected similar existing ideas. Would you like to provide more information or clarify how your idea is unique?\n")
	}
}

func (a *app) printRecord(sub wizard.Submission) error {
	data, err := json.MarshalIndent(sub.Record.Plain(), "", "  ")
	if err != nil {
		return err
	}
	a.printf("%s\n", data)
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openStore(cfg config.Config) (persistence.Store, io.Closer, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return persistence.NewMemoryStore(), nopCloser{}, nil
	case config.StoreSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create sqlite directory: %w", err)
		}
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	default:
		store, err := persistence.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return store, nopCloser{}, nil
	}
}
