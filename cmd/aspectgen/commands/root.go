package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	internalloader "github.com/goliatone/go-aspectmodel/internal/loader"
	"github.com/goliatone/go-aspectmodel/pkg/config"
	pkgloader "github.com/goliatone/go-aspectmodel/pkg/loader"
	"github.com/goliatone/go-aspectmodel/pkg/logging"
	"github.com/goliatone/go-aspectmodel/pkg/orchestrator"
	"github.com/goliatone/go-aspectmodel/pkg/resolver"
)

// Version is stamped at build time with -ldflags "-X .../commands.Version=...".
var Version = "dev"

// Streams are the standard streams a command reads from and writes to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

type globalFlags struct {
	modelsDir string
	modelsURL string
	outputDir string
	locale    string
	logLevel  string
	logFormat string
	envFile   string
	preset    string
}

// Execute runs the root command against the process streams.
func Execute() error {
	root := NewRootCommand(Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr})
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewRootCommand builds the aspectgen command tree. loaderOpts are passed to
// the configuration loader.
func NewRootCommand(streams Streams, loaderOpts ...config.LoaderOption) *cobra.Command {
	if streams.In == nil {
		streams.In = os.Stdin
	}
	if streams.Out == nil {
		streams.Out = os.Stdout
	}
	if streams.Err == nil {
		streams.Err = os.Stderr
	}

	return newRootCommand(&app{streams: streams}, loaderOpts)
}

func newRootCommand(a *app, loaderOpts []config.LoaderOption) *cobra.Command {
	streams := a.streams
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "aspectgen",
		Short:         "Load SAMM Aspect Models and generate payloads, docs and code",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd, flags, loaderOpts)
		},
	}
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.Err)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.modelsDir, "models", "", "models root laid out as <namespace>/<version>/<Name>.ttl")
	pf.StringVar(&flags.modelsURL, "models-url", "", "remote models root consulted after --models")
	pf.StringVarP(&flags.outputDir, "output", "o", "", "output directory for generated files")
	pf.StringVar(&flags.locale, "locale", "", "language of names and descriptions")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "", "log format (text, json)")
	pf.StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before the configuration")
	pf.StringVar(&flags.preset, "preset", "", "JSON file overriding names and descriptions before rendering")

	root.AddCommand(
		loadCmd(a),
		validateCmd(a),
		jsonCmd(a),
		docsCmd(a),
		openapiCmd(a),
		gocodeCmd(a),
		turtleCmd(a),
		listCmd(a),
		mockCmd(a),
		versionCmd(),
	)

	return root
}

func (a *app) init(cmd *cobra.Command, flags *globalFlags, loaderOpts []config.LoaderOption) error {
	if flags.envFile != "" {
		if err := godotenv.Load(flags.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(a.streams.Err, "%s load warning: %v\n", flags.envFile, err)
		}
	}

	bootstrap := logging.New(a.streams.Err, logging.Config{Level: flags.logLevel})
	cfg, err := config.NewLoader(bootstrap, loaderOpts...).Load()
	if err != nil {
		return err
	}
	applyFlags(cfg, flags)
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.New(a.streams.Err, logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
	})

	strategies := []resolver.Strategy{resolver.FileSystem(cfg.Models.Dir, resolver.WithLogger(a.logger))}
	if cfg.Models.URL != "" {
		strategies = append(strategies, resolver.HTTP(cfg.Models.URL, nil, resolver.WithLogger(a.logger)))
	}
	a.loader = internalloader.New(pkgloader.NewOptions(
		pkgloader.WithStrategy(resolver.Chain(strategies...)),
		pkgloader.WithHTTPFallback(30*time.Second),
		pkgloader.WithLogger(a.logger),
	))
	a.transformers = nil
	if flags.preset != "" {
		data, err := os.ReadFile(flags.preset)
		if err != nil {
			return fmt.Errorf("read preset: %w", err)
		}
		preset, err := orchestrator.NewJSONPresetTransformer(data)
		if err != nil {
			return err
		}
		a.transformers = append(a.transformers, preset)
	}
	a.logger.Debug("configuration loaded",
		slog.String("command", cmd.Name()),
		slog.String("models", cfg.Models.Dir),
		slog.String("output", cfg.Output.Dir),
	)
	return nil
}

func applyFlags(cfg *config.Config, flags *globalFlags) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Models.Dir, flags.modelsDir)
	set(&cfg.Models.URL, flags.modelsURL)
	set(&cfg.Output.Dir, flags.outputDir)
	set(&cfg.Output.Locale, flags.locale)
	set(&cfg.Logging.Level, flags.logLevel)
	set(&cfg.Logging.Format, flags.logFormat)
}
