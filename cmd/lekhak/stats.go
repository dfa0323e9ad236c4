package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/sonnes/lekhak/render/terminal"
)

func statsCmd() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Print per-session summaries without the action timeline",
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
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			reports, err := analyzeAll(ctx, cmd, cfg)
			if err != nil {
				return err
			}

			rnd := &terminal.Renderer{Compact: true}
			for _, rep := range sortedReports(reports) {
				if err := rnd.Render(os.Stdout, rep); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
