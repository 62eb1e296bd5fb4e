package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"codefix/internal/backend"
	"codefix/internal/config"
	"codefix/internal/logging"
	"codefix/internal/trace"
	"codefix/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app carries what PersistentPreRunE builds for the subcommands.
type app struct {
	cfg      config.Config
	logger   zerolog.Logger
	closeLog func() error
	tracing  *trace.Provider
	client   *backend.Client
}

// execute runs the command line with the given arguments and streams.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	a := &app{logger: zerolog.Nop()}
	defer func() { _ = a.close() }()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "codefix",
		Short: "Code completion, debugging and test case generation in the terminal",
		Long: `codefix sends the code in its editor to a code assistant service and
shows the answer next to it.

Tabs pick the service endpoint:
  Code Completion        POST /completion
  Debugging              POST /debugging
  Test Case Generation   POST /testcase

Drag the divider between editor and output with the mouse to resize them.
Press ctrl+r (or click Run) to send the code, ctrl+x for more commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need a backend
			switch cmd.Name() {
			case "help", "version", "init", "config":
				return nil
			}
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI(cmd.Context())
		},
	}
	config.RegisterFlags(root.PersistentFlags())
	root.AddCommand(newRunCmd(a), newConfigCmd(), newVersionCmd())
	return root
}

// setup resolves configuration and builds the logger, tracer and client.
func (a *app) setup(cmd *cobra.Command) error {
	v, err := config.NewViper()
	if err != nil {
		return err
	}
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("read --config: %w", err)
	}
	cfg, err := config.Load(v, path)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.Log.Level)
	logCfg.Format = cfg.Log.Format
	logCfg.File = cfg.Log.File
	logger, closeLog, err := logging.Open(logCfg)
	if err != nil {
		return err
	}
	a.logger = logger
	a.closeLog = closeLog

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	tracing, err := trace.Setup(ctx, trace.Config{
		Endpoint:    cfg.OTLP.Endpoint,
		ServiceName: cfg.OTLP.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("set up tracing: %w", err)
	}
	a.tracing = tracing

	client, err := backend.New(cfg.BaseURL,
		backend.WithTimeout(cfg.RequestTimeout),
		backend.WithTracer(tracing.Tracer()),
		backend.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}
	a.client = client

	a.logger.Info().
		Str("base_url", cfg.BaseURL).
		Dur("timeout", cfg.RequestTimeout).
		Bool("tracing", tracing.Enabled()).
		Msg("codefix started")
	return nil
}

// close flushes spans and closes the log file.
func (a *app) close() error {
	if a.tracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.tracing.Shutdown(ctx); err != nil {
			a.logger.Warn().Err(err).Msg("trace shutdown")
		}
		a.tracing = nil
	}
	if a.closeLog != nil {
		err := a.closeLog()
		a.closeLog = nil
		if err != nil {
			return fmt.Errorf("close log: %w", err)
		}
	}
	return nil
}

func (a *app) runTUI(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	model := ui.NewAppModel(ctx, ui.Options{
		Runner:      a.client,
		Logger:      a.logger,
		InitialCode: a.cfg.Editor.InitialCode,
		EditorWidth: a.cfg.Editor.Width,
	})
	defer model.Close()

	p := tea.NewProgram(model.AsTeaModel(),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
