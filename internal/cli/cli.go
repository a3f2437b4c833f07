// Package cli implements the confscore command line: offline scoring of
// prediction matrices read from YAML or JSON documents.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	service "github.com/okian/confscore/internal/app"
	"github.com/okian/confscore/internal/domain/scoring"
	"github.com/okian/confscore/internal/domain/types"
	"github.com/okian/confscore/pkg/logger"
	ucli "github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var (
	fileFlag = &ucli.StringFlag{
		Name:     "file",
		Aliases:  []string{"f"},
		Usage:    "Prediction document path, or - for stdin",
		Required: true,
	}

	scorerFlag = &ucli.StringFlag{
		Name:    "scorer",
		Aliases: []string{"s"},
		Usage:   "Scorer name",
		Value:   scoring.NameBoltzman,
	}

	workersFlag = &ucli.IntFlag{
		Name:    "workers",
		Aliases: []string{"w"},
		Usage:   "Concurrent row workers",
		Value:   1,
	}

	formatFlag = &ucli.StringFlag{
		Name:  "format",
		Usage: "Output format (json, yaml)",
		Value: FormatJSON,
	}

	debugFlag = &ucli.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs",
	}
)

// New returns the root command. Input is read from stdin when --file is -,
// results go to stdout.
func New(version string, stdin io.Reader, stdout io.Writer) *ucli.Command {
	return &ucli.Command{
		Name:    "confscore",
		Version: version,
		Usage:   "Score classifier outputs with Boltzmann confidence",
		Writer:  stdout,
		Flags:   []ucli.Flag{debugFlag},
		Before: func(ctx context.Context, cmd *ucli.Command) (context.Context, error) {
			if cmd.Bool(debugFlag.Name) {
				_ = logger.SetLevelString("debug")
			}
			return ctx, nil
		},
		Commands: []*ucli.Command{
			{
				Name:  "score",
				Usage: "Score a prediction matrix",
				Flags: []ucli.Flag{fileFlag, scorerFlag, workersFlag, formatFlag},
				Action: func(ctx context.Context, cmd *ucli.Command) error {
					return cmdScore(ctx, cmd, stdin, stdout)
				},
			},
			{
				Name:  "scorers",
				Usage: "List registered scorers",
				Action: func(_ context.Context, _ *ucli.Command) error {
					for _, name := range scoring.Default().Names() {
						if _, err := fmt.Fprintln(stdout, name); err != nil {
							return err
						}
					}
					return nil
				},
			},
		},
	}
}

func cmdScore(ctx context.Context, cmd *ucli.Command, stdin io.Reader, stdout io.Writer) error {
	log := logger.Named("cli")

	format := strings.ToLower(cmd.String(formatFlag.Name))
	if format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("%w: %q", ErrFormat, format)
	}

	path := cmd.String(fileFlag.Name)
	pred, err := readDocument(path, stdin)
	if err != nil {
		return err
	}
	log.Debug(ctx, "scoring document",
		logger.String("file", path),
		logger.Int("rows", pred.Rows()),
		logger.Int("classes", pred.Cols()),
	)

	svc := service.New(
		service.WithLogger(log),
		service.WithRowWorkers(max(cmd.Int(workersFlag.Name), 1)),
	)
	res, err := svc.Score(ctx, cmd.String(scorerFlag.Name), pred)
	if err != nil {
		return err
	}

	out := types.ScoreResponse{Scorer: res.Scorer, Confidence: res.Confidence, Labels: res.Labels}
	if out.Confidence == nil {
		out.Confidence = []float64{}
	}
	if out.Labels == nil {
		out.Labels = []int{}
	}
	return write(stdout, format, out)
}

func write(w io.Writer, format string, v types.ScoreResponse) error {
	if format == FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
