package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/sonnes/lekhak/core"
)

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Parse and annotate session logs, then render the reports",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Usage:    "Path to a log file, a logs-by-session JSON file, or a directory of per-session JSONL files",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to a YAML config file",
			},
			&cli.StringFlag{
				Name:  "policy",
				Usage: "Merge policy override: same_sentence, tiny_delete",
			},
			&cli.StringFlag{
				Name:  "session",
				Usage: "Render only the given session ID",
			},
			&cli.StringFlag{
				Name:  "o",
				Usage: "Output format: terminal, json, html",
				Value: "terminal",
			},
			&cli.StringSliceFlag{
				Name:  "redact",
				Usage: "Redaction rules to apply before rendering. Example: --redact=blank,pii",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a := newApp()

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			reports, err := analyzeAll(ctx, cmd, cfg)
			if err != nil {
				return err
			}

			if id := cmd.String("session"); id != "" {
				rep, ok := reports[id]
				if !ok {
					return fmt.Errorf("unknown session %q", id)
				}
				reports = map[string]*core.Report{id: rep}
			}

			redactor, err := newRedactor(cmd)
			if err != nil {
				return err
			}

			rnd, err := a.renderer(cmd.String("o"))
			if err != nil {
				return err
			}

			for _, rep := range sortedReports(reports) {
				if redactor != nil {
					if err := core.Chain(rep, redactor); err != nil {
						return fmt.Errorf("redact: %w", err)
					}
				}
				if err := rnd.Render(os.Stdout, rep); err != nil {
					return fmt.Errorf("render: %w", err)
				}
			}

			return nil
		},
	}
}
