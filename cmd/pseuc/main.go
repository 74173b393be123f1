// Command pseuc is the compiler driver: it reads a source file, runs
// it through internal/parser, internal/ir, and
// internal/codegen/x86_64, and writes the resulting NASM text to
// disk. The driver itself sits outside spec.md's core budget (§1);
// its shape is grounded in rhino1998-aeon/cmd/aeon/main.go (urfave/cli
// command structure, slog.Default() logger) and
// pontaoski-tawago/main.go (tracerr error presentation, repr dumps).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/repr"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
	"github.com/ztrue/tracerr"
	"golang.org/x/term"

	"github.com/ISEP-Projects-JH/PseudoCompiler/internal/codegen/x86_64"
	"github.com/ISEP-Projects-JH/PseudoCompiler/internal/config"
	"github.com/ISEP-Projects-JH/PseudoCompiler/internal/ir"
	"github.com/ISEP-Projects-JH/PseudoCompiler/internal/parser"
	"github.com/ISEP-Projects-JH/PseudoCompiler/internal/sink"
)

func main() {
	cmd := &cli.Command{
		Name:  "pseuc",
		Usage: "ahead-of-time compiler for the toy pseu language",
		Commands: []*cli.Command{
			buildCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

func buildCommand() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "compile a source file into NASM x86-64 assembly",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}},
			&cli.StringFlag{Name: "config", Value: "pseuc.yaml"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
			&cli.BoolFlag{Name: "dump-ast"},
			&cli.BoolFlag{Name: "dump-ir"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("usage: pseuc build [-o out.s] <file.pseu>")
			}
			srcPath := c.Args().First()

			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			if c.IsSet("output") {
				cfg.Output = c.String("output")
			}
			if c.Bool("verbose") {
				cfg.Verbose = true
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			data, err := os.ReadFile(srcPath)
			if err != nil {
				return fmt.Errorf("read %s: %w", srcPath, err)
			}

			root, err := parser.Parse(string(data))
			if err != nil {
				return fmt.Errorf("parse %s: %w", srcPath, err)
			}
			if c.Bool("dump-ast") {
				repr.Println(root)
			}
			log.Info("parsed source", slog.String("file", srcPath))

			gen, err := ir.Generate(root, log)
			if err != nil {
				return fmt.Errorf("lower %s: %w", srcPath, err)
			}
			if c.Bool("dump-ir") {
				repr.Println(gen)
			}
			log.Info("generated IR", slog.Int("instructions", len(gen.Code)))

			asm, err := x86_64.Emit(gen, cfg.Entry)
			if err != nil {
				return fmt.Errorf("emit assembly: %w", err)
			}

			if err := sink.Write(cfg.Output, asm, log); err != nil {
				return err
			}
			return nil
		},
	}
}

// reportError prints err as a colorized stack trace when stderr is a
// real terminal, and plainly otherwise — isatty/term decide which,
// mirroring pontaoski-tawago/main.go's tracerr.PrintSourceColor use
// without forcing ANSI escapes onto piped/redirected output.
func reportError(err error) {
	wrapped := tracerr.Wrap(err)
	if isatty.IsTerminal(os.Stderr.Fd()) && term.IsTerminal(int(os.Stderr.Fd())) {
		tracerr.PrintSourceColor(wrapped)
		return
	}
	tracerr.Print(wrapped)
}
