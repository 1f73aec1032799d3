package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"cuelang.org/go/cue"
	"github.com/alecthomas/kong"
	"github.com/epithet-ssh/qmqp/pkg/config"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// CLI is the qmqp command tree.
type CLI struct {
	Verbose int      `short:"v" type:"counter" help:"Increase log verbosity (-v info, -vv debug)"`
	Config  []string `short:"c" sep:";" env:"QMQP_CONFIG" help:"Config files or globs, unified in order (default: /etc/qmqp and ~/.config/qmqp)"`
	LogFile string   `help:"Write logs to this file instead of stderr" type:"path"`

	Send    SendCLI    `cmd:"" help:"Send a message read from stdin to a QMQP server"`
	Inspect InspectCLI `cmd:"" help:"Decode a QMQP request frame read from stdin"`
	Dev     DevCLI     `cmd:"" help:"Development helpers"`
}

// stdio carries the process streams so commands can be tested in-process.
type stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// exitError ends the process with a specific status after the command has
// already reported what happened.
type exitError int

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", int(e))
}

type exitPanic int

func main() {
	// Values from .env never override the real environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "qmqp: failed to load .env: %v\n", err)
		os.Exit(exitFailure)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], &stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr})
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, std *stdio) (code int) {
	var cli CLI

	parser, err := kong.New(&cli,
		kong.Name("qmqp"),
		kong.Description("Submit mail to a QMQP server"),
		kong.UsageOnError(),
		kong.Writers(std.Out, std.Err),
		kong.Exit(func(status int) { panic(exitPanic(status)) }),
	)
	if err != nil {
		fmt.Fprintf(std.Err, "qmqp: %v\n", err)
		return exitFailure
	}

	defer func() {
		if r := recover(); r != nil {
			status, ok := r.(exitPanic)
			if !ok {
				panic(r)
			}
			code = int(status)
		}
	}()

	kctx, err := parser.Parse(args)
	if err != nil {
		parser.Errorf("%s", err)
		var parseErr *kong.ParseError
		if errors.As(err, &parseErr) {
			_ = parseErr.Context.PrintUsage(true)
		}
		return exitUsage
	}

	logger, closeLog, err := setupLogger(cli.Verbose, cli.LogFile, std.Err)
	if err != nil {
		fmt.Fprintf(std.Err, "qmqp: %v\n", err)
		return exitFailure
	}
	defer closeLog()

	unified, err := loadConfig(cli.Config)
	if err != nil {
		fmt.Fprintf(std.Err, "qmqp: %v\n", err)
		return exitFailure
	}

	kctx.BindTo(ctx, (*context.Context)(nil))
	err = kctx.Run(logger, unified, std)
	if err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			return int(exit)
		}
		fmt.Fprintf(std.Err, "qmqp: %v\n", err)
		return exitFailure
	}
	return exitOK
}

func setupLogger(verbose int, logFile string, stderr io.Writer) (*slog.Logger, func(), error) {
	level := slog.LevelWarn
	switch {
	case verbose == 1:
		level = slog.LevelInfo
	case verbose >= 2:
		level = slog.LevelDebug
	}

	out := stderr
	closeLog := func() {}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closeLog = func() { f.Close() }
	}

	handler := tint.NewHandler(out, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		NoColor:    logFile != "",
	})
	return slog.New(handler), closeLog, nil
}

func loadConfig(paths []string) (cue.Value, error) {
	if len(paths) == 0 {
		paths = config.DefaultPaths
	}
	val, err := config.LoadAndUnifyPaths(paths)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to load config: %w", err)
	}
	return val, nil
}
