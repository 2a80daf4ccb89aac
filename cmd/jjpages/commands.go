package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"
	"github.com/signadot/jjpages/config"
	"github.com/signadot/jjpages/pages"
	"github.com/signadot/jjpages/vcs/jjcli"
)

type MainConfig struct {
	ConfigFile string `cli:"name=config desc='configuration file (toml or yaml)'"`
	Verbose    bool   `cli:"name=v desc='log debug messages'"`

	Main *cli.Command
}

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "jjpages").
		WithSynopsis("jjpages [opts] command [opts]").
		WithDescription("jjpages serves editable pages describing jj workspaces.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return jjpagesMain(cfg, cc, args)
		}).
		WithSubs(
			LSPCommand(cfg),
			RenderCommand(cfg),
			PathCommand(cfg))
}

func jjpagesMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	return runSub(cfg.Main, cc, args)
}

// runSub parses the options of cmd and runs the subcommand named by the
// first remaining argument.
func runSub(cmd *cli.Command, cc *cli.Context, args []string) error {
	args, err := cmd.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cmd.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

// load reads the configuration and builds the jj backend and the page
// renderer it describes.
func (cfg *MainConfig) load() (*jjcli.Backend, *pages.Renderer, error) {
	conf, err := config.Load(cfg.ConfigFile)
	if err != nil {
		return nil, nil, err
	}
	backend := jjcli.New(conf.JJ, jjcli.Options{
		LogRevset:      conf.LogRevset,
		CommitTemplate: conf.CommitTemplate,
	})
	renderer := &pages.Renderer{
		AnnotateRevision: conf.AnnotateRevision,
		Concurrency:      conf.Concurrency,
	}
	return backend, renderer, nil
}
