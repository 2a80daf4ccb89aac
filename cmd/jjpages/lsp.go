package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"

	"github.com/google/gops/agent"
	"github.com/scott-cotton/cli"
	"github.com/signadot/jjpages/server"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

type LSPConfig struct {
	*MainConfig
	Gops bool `cli:"name=gops desc='start a gops agent'"`

	LSP *cli.Command
}

func LSPCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &LSPConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.LSP, "lsp").
		WithSynopsis("lsp [-gops]").
		WithDescription("run the language server on stdin and stdout").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return lsp(cfg, cc, args)
		})
}

func lsp(cfg *LSPConfig, cc *cli.Context, args []string) error {
	if _, err := cfg.LSP.Parse(cc, args); err != nil {
		return err
	}
	// stdout carries the protocol
	log := newLog(os.Stderr, cfg.Verbose)
	if cfg.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			log.Warn("gops agent failed", "error", err)
		}
	}
	backend, renderer, err := cfg.load()
	if err != nil {
		return err
	}
	srv := server.New(&server.Spec{
		Backend:  backend,
		Renderer: renderer,
		Log:      log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	stream := jsonrpc2.NewStream(&stdioReadWriteCloser{
		read:  os.Stdin,
		write: os.Stdout,
	})
	conn := jsonrpc2.NewConn(stream)
	srv.SetConn(conn)
	conn.Go(ctx, protocol.ServerHandler(srv, jsonrpc2.MethodNotFoundHandler))
	log.Info("serving", "version", server.Version)
	select {
	case <-conn.Done():
		if err := conn.Err(); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	case <-ctx.Done():
		return conn.Close()
	}
}

type stdioReadWriteCloser struct {
	read  io.Reader
	write io.Writer
}

func (s *stdioReadWriteCloser) Read(p []byte) (n int, err error) {
	return s.read.Read(p)
}

func (s *stdioReadWriteCloser) Write(p []byte) (n int, err error) {
	return s.write.Write(p)
}

func (s *stdioReadWriteCloser) Close() error {
	return nil
}
