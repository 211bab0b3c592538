package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/askiada/go-dogpic/internal/config"
	"github.com/askiada/go-dogpic/internal/logging"
	"github.com/askiada/go-dogpic/pkg/dogpic"
)

type runFlags struct {
	configPath string
	workdir    string
	style      string
	variant    string
	logLevel   string
	graph      string
	measure    bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "YAML configuration file")
	cmd.Flags().StringVarP(&f.workdir, "workdir", "w", "", "Directory holding dog.txt and dog-img.txt (default: executable directory)")
	cmd.Flags().StringVarP(&f.style, "style", "s", "", "Control flow style: await, chain or callback")
	cmd.Flags().StringVar(&f.variant, "variant", "", "URL variant: api or legacy")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "Log level")
	cmd.Flags().StringVar(&f.graph, "graph", "", "Write a DOT graph of the stages to this file (chain style)")
	cmd.Flags().BoolVar(&f.measure, "measure", false, "Log the duration of every stage (chain style)")
}

// apply overrides cfg with the flags explicitly set on the command line.
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("workdir") {
		cfg.Workdir = f.workdir
	}
	if cmd.Flags().Changed("style") {
		cfg.Style = f.style
	}
	if cmd.Flags().Changed("variant") {
		cfg.Fetch.Variant = f.variant
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if cmd.Flags().Changed("graph") {
		cfg.Report.Graph = f.graph
	}
	if cmd.Flags().Changed("measure") {
		cfg.Report.Measure = f.measure
	}
}

func newRunCmd() *cobra.Command {
	flags := &runFlags{}

	runCmd := &cobra.Command{
		Use:          "run",
		Short:        "Read the breed, fetch an image URL and write it",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, flags)
		},
	}
	flags.register(runCmd)

	return runCmd
}

// loggedError is an error already reported through the logger.
type loggedError struct {
	error
}

func (e loggedError) Unwrap() error {
	return e.error
}

func isLogged(err error) bool {
	var logged loggedError

	return errors.As(err, &logged)
}

func runPipeline(cmd *cobra.Command, flags *runFlags) error {
	cfg, err := config.Load(afero.NewOsFs(), flags.configPath)
	if err != nil {
		return err
	}
	flags.apply(cmd, cfg)
	err = cfg.Validate()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	pipe, err := buildPipeline(cfg, logger)
	if err != nil {
		logger.Error("unable to build pipeline", zap.Error(err))

		return loggedError{err}
	}

	_, err = pipe.Run(cmd.Context())
	if err != nil {
		return loggedError{err}
	}

	return nil
}

func buildPipeline(cfg *config.Config, logger *zap.Logger) (*dogpic.Pipeline, error) {
	workdir, err := cfg.ResolveWorkdir()
	if err != nil {
		return nil, err
	}
	variant, err := cfg.Variant()
	if err != nil {
		return nil, err
	}
	style, err := dogpic.ParseStyle(cfg.Style)
	if err != nil {
		return nil, err
	}

	fs := afero.NewBasePathFs(afero.NewOsFs(), workdir)
	store := dogpic.NewFileStore(fs, logger)
	fetcher := dogpic.NewHTTPFetcher(variant,
		dogpic.FetcherTimeout(cfg.Fetch.Timeout),
		dogpic.FetcherLogger(logger),
	)

	opts := []dogpic.PipelineOption{
		dogpic.PipelinePaths(cfg.Source, cfg.Destination),
		dogpic.PipelineStyle(style),
		dogpic.PipelineTrimBreed(cfg.TrimBreed),
		dogpic.PipelineLogger(logger),
	}
	if cfg.Report.Measure {
		opts = append(opts, dogpic.PipelineMeasure())
	}
	if cfg.Report.Graph != "" {
		opts = append(opts, dogpic.PipelineGraph(fs, cfg.Report.Graph))
	}

	logger.Debug("pipeline configured",
		zap.String("workdir", workdir),
		zap.String("style", string(style)),
		zap.String("url", variant.URL("{breed}")),
	)

	return dogpic.New(store, fetcher, store, opts...), nil
}
