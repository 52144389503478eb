// Package commands implements the inventario command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/inventario-agricola/inventario/internal/app"
)

// Exit codes returned by Run.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Options configures the streams used by the command line.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
}

// state is filled by the global flags before any command runs.
type state struct {
	stdout io.Writer
	stderr io.Writer
	cfg    *app.Config
	logger *slog.Logger
}

// NewApp builds the command tree.
func NewApp(opts Options) *cli.App {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	st := &state{stdout: opts.Stdout, stderr: opts.Stderr}

	commands := []*cli.Command{serveCommand(st)}
	commands = append(commands, resourceCommands(st)...)

	return &cli.App{
		Name:            "inventario",
		Usage:           "consola de formularios para semillas y proveedores",
		HideHelpCommand: true,
		Writer:          opts.Stdout,
		ErrWriter:       opts.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "backend-url", Usage: "raíz del API, p. ej. http://localhost:8080/api/v1"},
			&cli.StringFlag{Name: "lang", Usage: "idioma de los mensajes (es, en)"},
			&cli.DurationFlag{Name: "timeout", Usage: "tiempo máximo por petición al backend, 0 sin límite"},
			&cli.BoolFlag{Name: "no-toast", Usage: "no mostrar notificaciones"},
			&cli.BoolFlag{Name: "verbose", Usage: "registrar cada petición en stderr según LOG_LEVEL"},
		},
		Before:         st.load,
		Commands:       commands,
		OnUsageError:   usageError,
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

// Run executes the command line and returns the process exit code.
func Run(ctx context.Context, args []string, opts Options) int {
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	err := NewApp(opts).RunContext(ctx, args)
	if err == nil {
		return ExitOK
	}
	var exit cli.ExitCoder
	if errors.As(err, &exit) {
		if msg := exit.Error(); msg != "" {
			_, _ = fmt.Fprintln(opts.Stderr, msg)
		}
		return exit.ExitCode()
	}
	_, _ = fmt.Fprintf(opts.Stderr, "inventario: %v\n", err)
	return ExitUsage
}

func (st *state) load(c *cli.Context) error {
	cfg, err := app.ReadConfig()
	if err != nil {
		return cli.Exit(fmt.Sprintf("inventario: load config: %v", err), ExitUsage)
	}
	if c.IsSet("backend-url") {
		cfg.BackendBaseURL = c.String("backend-url")
		cfg.SeedsURL, cfg.SuppliersURL = "", ""
	}
	if c.IsSet("lang") {
		cfg.ConsoleLang = c.String("lang")
	}
	if c.IsSet("timeout") {
		cfg.BackendTimeout = c.Duration("timeout")
	}
	if c.Bool("no-toast") {
		cfg.ConsoleToast = false
	}
	if err := cfg.Validate(); err != nil {
		return cli.Exit(fmt.Sprintf("inventario: %v", err), ExitUsage)
	}
	st.cfg = cfg
	logCfg := *cfg
	if !c.Bool("verbose") {
		logCfg.LogLevel = "warn"
	}
	st.logger = app.NewLoggerTo(st.stderr, &logCfg)
	return nil
}

func usageError(_ *cli.Context, err error, _ bool) error {
	return cli.Exit(fmt.Sprintf("inventario: %v", err), ExitUsage)
}
