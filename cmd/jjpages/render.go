package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	"github.com/signadot/jjpages/label"
	"github.com/signadot/jjpages/pages"
)

type RenderConfig struct {
	*MainConfig
	Color bool `cli:"name=color desc='highlight even when not writing to a terminal'"`
	Dump  bool `cli:"name=dump desc='list the overlays of the page instead of its text'"`

	Render *cli.Command
}

func RenderCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &RenderConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Render, "render").
		WithAliases("r").
		WithSynopsis("render [-color] [-dump] <workspace> <kind> [args]").
		WithDescription("render a page to stdout").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return render(cfg, cc, args)
		})
}

func kindNames() string {
	var names []string
	for _, k := range pages.Kinds() {
		names = append(names, k.String())
	}
	return strings.Join(names, ", ")
}

func render(cfg *RenderConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Render.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: render requires a workspace and a page kind", cli.ErrUsage)
	}
	kind, ok := pages.Named(args[1])
	if !ok {
		return fmt.Errorf("%w: unknown page kind %q, want one of %s", cli.ErrUsage, args[1], kindNames())
	}
	backend, renderer, err := cfg.load()
	if err != nil {
		return err
	}
	ctx := context.Background()
	repo, err := backend.Locate(ctx, args[0])
	if err != nil {
		return err
	}
	p, err := renderer.Render(ctx, repo, kind, args[2:])
	if err != nil {
		return err
	}
	if cfg.Dump {
		return p.Dump(cc.Out)
	}
	if cfg.Color {
		color.NoColor = false
	}
	if cfg.Color || isTerminal(cc.Out) {
		return p.Highlight(cc.Out, label.NewColors())
	}
	_, err = io.WriteString(cc.Out, p.Text)
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
