package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/jjpages/pages"
)

type PathConfig struct {
	*MainConfig
	Path   *cli.Command
	Encode *cli.Command
	Decode *cli.Command
}

func PathCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PathConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Path, "path").
		WithSynopsis("path encode|decode").
		WithDescription("convert between page identities and page file paths").
		WithRun(func(cc *cli.Context, args []string) error {
			return runSub(cfg.Path, cc, args)
		}).
		WithSubs(
			PathEncodeCommand(cfg),
			PathDecodeCommand(cfg))
}

func PathEncodeCommand(cfg *PathConfig) *cli.Command {
	return cli.NewCommandAt(&cfg.Encode, "encode").
		WithSynopsis("encode <workspace> <kind> [args]").
		WithDescription("print the file path of a page").
		WithRun(func(cc *cli.Context, args []string) error {
			args, err := cfg.Encode.Parse(cc, args)
			if err != nil {
				return err
			}
			if len(args) < 2 {
				return fmt.Errorf("%w: encode requires a workspace and a page kind", cli.ErrUsage)
			}
			kind, ok := pages.Named(args[1])
			if !ok {
				return fmt.Errorf("%w: unknown page kind %q, want one of %s", cli.ErrUsage, args[1], kindNames())
			}
			path, err := pages.Encode(pages.Identity{Workspace: args[0], Kind: kind, Args: args[2:]})
			if err != nil {
				return err
			}
			fmt.Fprintln(cc.Out, path)
			return nil
		})
}

func PathDecodeCommand(cfg *PathConfig) *cli.Command {
	return cli.NewCommandAt(&cfg.Decode, "decode").
		WithSynopsis("decode <path>").
		WithDescription("print the workspace, kind and arguments of a page file, one per line").
		WithRun(func(cc *cli.Context, args []string) error {
			args, err := cfg.Decode.Parse(cc, args)
			if err != nil {
				return err
			}
			if len(args) != 1 {
				return fmt.Errorf("%w: decode requires one path", cli.ErrUsage)
			}
			id, err := pages.Decode(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cc.Out, id.Workspace)
			fmt.Fprintln(cc.Out, id.Kind)
			for _, a := range id.Args {
				fmt.Fprintln(cc.Out, a)
			}
			return nil
		})
}
