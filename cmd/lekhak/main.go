package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

func main() {
	root := &cli.Command{
		Name:  "lekhak",
		Usage: "Analyze keystroke logs from human+AI co-writing sessions",
		Description: `
  _     _   _         _
 | |___| |_| |_  __ _| |__
 | / -_) / / ' \/ _' | / /
 |_\___|_\_\_||_\__,_|_\_\

 The scribe of co-writing — turning keystroke logs into action streams.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log",
				Usage: "Log level: debug, info, warn, error",
				Value: "error",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level, err := log.ParseLevel(cmd.String("log"))
			if err != nil {
				return ctx, err
			}
			log.SetLevel(level)
			return ctx, nil
		},
		Commands: []*cli.Command{
			analyzeCmd(),
			statsCmd(),
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
