package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/codereward/internal/config"
	"github.com/dshills/codereward/internal/rubric"
	"github.com/dshills/codereward/internal/schema"
)

var version = "0.1.0"

// rootOptions holds the persistent flags and the per-run logger shared by
// all subcommands.
type rootOptions struct {
	configPath string
	rubric     string
	verbose    bool
	logger     *zap.Logger
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code. Unexpected
// failures are reported on stderr as "❌ Error: <message>".
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			if ee.msg != "" {
				fmt.Fprintln(stderr, ee.msg)
			}
			return ee.code
		}
		fmt.Fprintf(stderr, "❌ Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}

	root := &cobra.Command{
		Use:           "codereward",
		Short:         "Score code snippets and feedback sentiment into a reward report",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if o.logger != nil {
				return nil
			}
			zcfg := zap.NewProductionConfig()
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			if o.verbose {
				zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := zcfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			o.logger = logger.With(zap.String("run_id", uuid.NewString()))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if o.logger != nil {
				_ = o.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&o.configPath, "config", "", "Config file (default: ./"+config.FileName+" if present)")
	flags.StringVar(&o.rubric, "rubric", "", "Rubric name or path to a rubric YAML file")
	flags.BoolVar(&o.verbose, "verbose", false, "Log processing steps to stderr")

	root.AddCommand(newTrainCmd(o))
	root.AddCommand(newScoreCmd(o))
	root.AddCommand(newRewardCmd(o))
	root.AddCommand(newRubricsCmd(o))

	return root
}

// loadConfig resolves configuration, letting the --rubric flag override any
// file or environment setting.
func (o *rootOptions) loadConfig(cmd *cobra.Command, ov *config.Overrides) (*config.Config, error) {
	if ov == nil {
		ov = &config.Overrides{}
	}
	if cmd.Flags().Changed("rubric") {
		ov.Rubric = &o.rubric
	}
	cfg, err := config.Load(config.LoadOptions{Path: o.configPath, Overrides: ov})
	if err != nil {
		return nil, exitError(1, "❌ Error: %v", err)
	}
	o.logger.Debug("config loaded",
		zap.String("rubric", cfg.Rubric),
		zap.String("format", cfg.Format),
		zap.String("input_env", cfg.InputEnv))
	return cfg, nil
}

// loadRubric resolves and validates the rubric named by cfg.
func (o *rootOptions) loadRubric(cfg *config.Config) (*rubric.Rubric, error) {
	r, err := rubric.Resolve(cfg.Rubric)
	if err != nil {
		return nil, exitError(1, "❌ Error: failed to load rubric: %v", err)
	}
	if errs := schema.Validate(r); len(errs) > 0 {
		for _, e := range errs {
			o.logger.Warn("rubric validation failed", zap.String("rubric", r.Name), zap.Error(e))
		}
		return nil, exitError(1, "❌ Error: rubric %s failed validation: %s", r.Name, errs[0])
	}
	return r, nil
}

type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func exitError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}
