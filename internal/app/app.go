package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/rbright/dfarun/internal/cli"
	"github.com/rbright/dfarun/internal/config"
	"github.com/rbright/dfarun/internal/dfa"
	"github.com/rbright/dfarun/internal/doctor"
	"github.com/rbright/dfarun/internal/evalrpc"
	"github.com/rbright/dfarun/internal/logging"
	"github.com/rbright/dfarun/internal/menu"
	"github.com/rbright/dfarun/internal/version"
)

type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	r := Runner{Stdin: stdin, Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText("dfarun"))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText("dfarun"))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	logRuntime, err := logging.New(cfgLoaded.Config.Log.Level)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	for _, w := range cfgLoaded.Warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		if cfgLoaded.Exists {
			fmt.Fprintf(r.Stderr, "warning: %s\n", msg)
		}
		logger.Warn("config warning", "line", w.Line, "message", w.Message)
	}

	logger.Info("command start",
		"command", parsed.Command,
		"config", cfgLoaded.Path,
		"log", logRuntime.Path,
	)

	switch parsed.Command {
	case cli.CommandDoctor:
		report := doctor.Run(cfgLoaded)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	case cli.CommandCheck:
		return r.commandCheck(parsed.Args, logger)
	case cli.CommandEval:
		return r.commandEval(ctx, parsed, cfgLoaded.Config, logger)
	case cli.CommandServe:
		return r.commandServe(ctx, parsed, cfgLoaded.Config, logger)
	case cli.CommandMenu:
		return r.commandMenu(ctx, cfgLoaded.Config, logger)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

func (r Runner) commandCheck(paths []string, logger *slog.Logger) int {
	exitCode := 0
	for _, path := range paths {
		automaton, err := dfa.LoadFile(path)
		if err != nil {
			fmt.Fprintf(r.Stderr, "error: %s: %v\n", path, err)
			logger.Warn("check failed", "path", path, "error", err.Error())
			exitCode = 1
			continue
		}
		fmt.Fprintf(r.Stdout, "ok %s: %s\n", path, doctor.Summary(automaton))
		logger.Info("check passed", "path", path, "states", automaton.StateCount())
	}
	return exitCode
}

func (r Runner) commandEval(ctx context.Context, parsed cli.Parsed, cfg config.Config, logger *slog.Logger) int {
	evaluate, closeFn, err := r.evaluator(ctx, parsed, cfg, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer closeFn()

	for _, word := range parsed.Args {
		outcome, err := evaluate(ctx, []byte(word))
		if err != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			return 1
		}
		fmt.Fprintf(r.Stdout, "%q\t%s\n", word, outcome)
	}
	return 0
}

type evaluateFunc func(context.Context, []byte) (dfa.Outcome, error)

// evaluator picks a remote evaluator when --remote is set, otherwise a
// local automaton loaded from --file or the default catalog slot.
func (r Runner) evaluator(ctx context.Context, parsed cli.Parsed, cfg config.Config, logger *slog.Logger) (evaluateFunc, func(), error) {
	if parsed.Remote != "" {
		timeout := time.Duration(cfg.Serve.DialTimeoutMS) * time.Millisecond
		client, err := evalrpc.Dial(ctx, parsed.Remote, timeout)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("evaluating remotely", "remote", parsed.Remote)
		return client.Evaluate, func() { _ = client.Close() }, nil
	}

	automaton, err := loadSelected(parsed, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	local := func(_ context.Context, word []byte) (dfa.Outcome, error) {
		return automaton.Run(word), nil
	}
	return local, func() {}, nil
}

func (r Runner) commandServe(ctx context.Context, parsed cli.Parsed, cfg config.Config, logger *slog.Logger) int {
	automaton, err := loadSelected(parsed, cfg, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	address := parsed.Listen
	if address == "" {
		address = cfg.Serve.Address
	}

	listener, err := listen(ctx, address)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: listen %s: %v\n", address, err)
		return 1
	}

	fmt.Fprintf(r.Stdout, "serving %s on %s\n", doctor.Summary(automaton), listener.Addr())
	if err := evalrpc.Serve(ctx, listener, automaton, logger); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func listen(ctx context.Context, address string) (net.Listener, error) {
	if path, ok := evalrpc.UnixSocketPath(address); ok {
		return evalrpc.ListenUnix(ctx, path, 200*time.Millisecond, 2)
	}
	var lc net.ListenConfig
	return lc.Listen(ctx, "tcp", address)
}

func (r Runner) commandMenu(ctx context.Context, cfg config.Config, logger *slog.Logger) int {
	stdin := r.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}

	loader := menu.LoaderFunc(func(slot string) (*dfa.Automaton, error) {
		path, ok := cfg.AutomatonPath(slot)
		if !ok {
			return nil, fmt.Errorf("no automaton registered for slot %q", slot)
		}
		return dfa.LoadFile(path)
	})

	session := menu.New(stdin, r.Stdout, loader, cfg.Slots(), logger)
	if err := session.Run(ctx, cfg.Default); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(r.Stdout)
			return 0
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// loadSelected loads --file, or the default catalog slot when unset.
func loadSelected(parsed cli.Parsed, cfg config.Config, logger *slog.Logger) (*dfa.Automaton, error) {
	path := parsed.File
	if path == "" {
		var ok bool
		path, ok = cfg.AutomatonPath(cfg.Default)
		if !ok {
			return nil, fmt.Errorf("default slot %q is not in the catalog", cfg.Default)
		}
	}

	automaton, err := dfa.LoadFile(path)
	if err != nil {
		logger.Error("automaton load failed", "path", path, "error", err.Error())
		return nil, err
	}
	logger.Info("automaton loaded",
		"path", path,
		"states", automaton.StateCount(),
		"final", len(automaton.FinalStates()),
	)
	return automaton, nil
}
