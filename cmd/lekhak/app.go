package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/sonnes/lekhak/config"
	"github.com/sonnes/lekhak/core"
	"github.com/sonnes/lekhak/pipeline"
	"github.com/sonnes/lekhak/plugin"
	"github.com/sonnes/lekhak/reader"
	"github.com/sonnes/lekhak/redact"
	"github.com/sonnes/lekhak/render"
	htmlrender "github.com/sonnes/lekhak/render/html"
	jsonrender "github.com/sonnes/lekhak/render/json"
	"github.com/sonnes/lekhak/render/terminal"
	"github.com/sonnes/lekhak/similarity"
)

// app holds the renderer registry used by CLI commands.
type app struct {
	renderers map[string]func() render.Renderer
}

func newApp() *app {
	return &app{
		renderers: map[string]func() render.Renderer{
			"terminal": func() render.Renderer { return terminal.New() },
			"json":     func() render.Renderer { return &jsonrender.Renderer{Indent: true} },
			"html":     func() render.Renderer { return htmlrender.New() },
		},
	}
}

func (a *app) renderer(name string) (render.Renderer, error) {
	fn, ok := a.renderers[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q", name)
	}
	return fn(), nil
}

// loadConfig reads the config file and applies flag overrides on top.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if p := cmd.String("policy"); p != "" {
		switch p {
		case config.PolicySameSentence, config.PolicyTinyDelete:
			cfg.MergePolicy = p
		default:
			return nil, fmt.Errorf("unknown merge policy %q", p)
		}
	}
	return cfg, nil
}

// analyzeAll runs the batch pipeline over every session found at --file.
func analyzeAll(ctx context.Context, cmd *cli.Command, cfg *config.Config) (map[string]*core.Report, error) {
	sessions, err := reader.Load(cmd.String("file"))
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, fmt.Errorf("no sessions found at %q", cmd.String("file"))
	}

	plugins, err := plugin.FromNames(cfg.Plugins, similarity.Lexical)
	if err != nil {
		return nil, err
	}

	return pipeline.Run(ctx, sessions, pipeline.Options{
		Merger:     cfg.Merger(),
		Similarity: similarity.Lexical,
		Plugins:    plugins,
		Priority:   cfg.Priority,
	})
}

// sortedReports returns the reports ordered by session ID for stable output.
func sortedReports(reports map[string]*core.Report) []*core.Report {
	ids := make([]string, 0, len(reports))
	for id := range reports {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*core.Report, 0, len(ids))
	for _, id := range ids {
		out = append(out, reports[id])
	}
	return out
}

// newRedactor builds a Redactor from the --redact flag. Redaction is opt-in:
// an empty flag returns nil.
func newRedactor(cmd *cli.Command) (*redact.Redactor, error) {
	rules := cmd.StringSlice("redact")
	if len(rules) == 0 {
		return nil, nil
	}

	cfg := redact.Config{}
	for _, r := range rules {
		switch r {
		case "blank":
			cfg.Blank = true
		case "pii":
			cfg.PII = true
		default:
			return nil, fmt.Errorf("unknown redaction rule %q", r)
		}
	}
	return redact.New(cfg), nil
}
