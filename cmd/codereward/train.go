package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/codereward/internal/config"
	"github.com/dshills/codereward/internal/render"
	"github.com/dshills/codereward/internal/report"
	"github.com/dshills/codereward/internal/snippet"
	"github.com/dshills/codereward/internal/trainer"
)

// delimiter frames the RESULT line so callers can find it in the output.
var delimiter = strings.Repeat("=", 50)

type trainFlags struct {
	input         string
	format        string
	inputEnv      string
	previewLength int
	redact        bool
}

func newTrainCmd(o *rootOptions) *cobra.Command {
	f := &trainFlags{}

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Score a batch of snippets with their feedback and print a report",
		Long: `Reads {"codeSnippets":[{"code":...}],"feedback":[...]} from the
TRAINING_DATA environment variable (or --input) and prints progress lines
followed by a RESULT line holding the JSON report.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ov := &config.Overrides{}
			if cmd.Flags().Changed("format") {
				ov.Format = &f.format
			}
			if cmd.Flags().Changed("input-env") {
				ov.InputEnv = &f.inputEnv
			}
			if cmd.Flags().Changed("preview-length") {
				ov.PreviewLength = &f.previewLength
			}
			if cmd.Flags().Changed("redact") {
				ov.Redact = &f.redact
			}
			cfg, err := o.loadConfig(cmd, ov)
			if err != nil {
				return err
			}
			return runTrain(cmd, o, cfg, f.input)
		},
	}

	def := config.DefaultConfig()
	flags := cmd.Flags()
	flags.StringVar(&f.input, "input", "", "Read the payload from a file (- for stdin) instead of the environment")
	flags.StringVar(&f.format, "format", def.Format, "Output format: json or md")
	flags.StringVar(&f.inputEnv, "input-env", def.InputEnv, "Environment variable holding the payload")
	flags.IntVar(&f.previewLength, "preview-length", def.PreviewLength, "Characters kept in snippet previews")
	flags.BoolVar(&f.redact, "redact", def.Redact, "Mask credentials in snippet previews")

	return cmd
}

func runTrain(cmd *cobra.Command, o *rootOptions, cfg *config.Config, input string) error {
	out := cmd.OutOrStdout()
	logger := o.logger

	// 1. Read payload
	data, err := readPayload(cmd.InOrStdin(), input, cfg.InputEnv)
	if err != nil {
		return err
	}
	logger.Debug("payload read", zap.Int("bytes", len(data)))

	// 2. Decode
	batch, err := snippet.Parse(data)
	if errors.Is(err, snippet.ErrNoInput) {
		fmt.Fprintln(out, "⚠️  No training data provided")
		return exitError(1, "")
	}
	if err != nil {
		return err
	}

	// 3. Rubric
	rub, err := o.loadRubric(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "🧠 codereward - RL Training Started")
	fmt.Fprintf(out, "📅 Timestamp: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(out, "🎯 Training Mode: Lightweight RL (Reward-Based Learning), rubric %s\n", rub.Name)

	// 4. Nothing to score
	if len(batch.CodeSnippets) == 0 {
		fmt.Fprintln(out, "⚠️  No training data provided")
		if err := writeResult(out, cfg.Format, report.NoSnippets()); err != nil {
			return err
		}
		return exitError(1, "")
	}

	fmt.Fprintf(out, "📊 Training data: %d code snippets, %d feedback items\n",
		len(batch.CodeSnippets), len(batch.Feedback))

	// 5. Score
	fmt.Fprintln(out, "\n🔄 RL Training Process:")
	for _, step := range []string{
		"Initializing reward function",
		"Evaluating code quality (state assessment)",
		"Processing feedback signals",
		"Computing policy gradients",
		"Updating suggestion weights",
	} {
		fmt.Fprintf(out, "  ✓ %s\n", step)
	}

	tr := trainer.New(rub, trainer.Options{
		PreviewLength: cfg.PreviewLength,
		Redact:        cfg.Redact,
		Logger:        logger,
	})
	rep := tr.Train(batch)
	logger.Debug("training finished",
		zap.Int("samples", rep.SamplesProcessed),
		zap.Int("distinct_snippets", len(tr.History())),
		zap.Float64("avg_reward", rep.AvgReward))

	fmt.Fprintln(out, "\n✅ RL training completed successfully")
	fmt.Fprintf(out, "📈 Average Reward: %v\n", rep.AvgReward)
	fmt.Fprintf(out, "🎯 Policy Updated: %t\n", rep.PolicyUpdated)

	// 6. Output
	return writeResult(out, cfg.Format, rep)
}

// readPayload returns the training payload from a file, stdin ("-"), or the
// named environment variable. An unset variable reads as an empty object.
func readPayload(stdin io.Reader, input, envName string) ([]byte, error) {
	switch input {
	case "":
		v, ok := os.LookupEnv(envName)
		if !ok {
			return []byte("{}"), nil
		}
		return []byte(v), nil
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	default:
		data, err := os.ReadFile(input)
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		return data, nil
	}
}

// writeResult prints v between delimiter lines as a RESULT line, or as
// Markdown when format is md.
func writeResult(w io.Writer, format string, v any) error {
	if format == config.FormatMarkdown {
		var md string
		switch r := v.(type) {
		case *report.Report:
			md = render.Markdown(r)
		case report.ErrorResult:
			md = render.MarkdownError(r)
		default:
			return fmt.Errorf("cannot render %T as markdown", v)
		}
		_, err := fmt.Fprintf(w, "\n%s", md)
		return err
	}

	data, err := marshalLine(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "\n%s\nRESULT: %s\n%s\n", delimiter, data, delimiter)
	return err
}

// marshalLine encodes v as single-line JSON without HTML escaping, so code
// such as "=>" stays readable in the output.
func marshalLine(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
