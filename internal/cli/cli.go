package cli

import (
	"errors"
	"fmt"
	"strings"
)

type Command string

const (
	CommandMenu    Command = "menu"
	CommandCheck   Command = "check"
	CommandEval    Command = "eval"
	CommandServe   Command = "serve"
	CommandDoctor  Command = "doctor"
	CommandVersion Command = "version"
	CommandHelp    Command = "help"
)

var validCommands = map[Command]struct{}{
	CommandMenu:    {},
	CommandCheck:   {},
	CommandEval:    {},
	CommandServe:   {},
	CommandDoctor:  {},
	CommandVersion: {},
	CommandHelp:    {},
}

type Parsed struct {
	Command    Command
	ConfigPath string
	File       string
	Listen     string
	Remote     string
	Args       []string
	ShowHelp   bool
}

func Parse(args []string) (Parsed, error) {
	parsed := Parsed{Command: CommandHelp, ShowHelp: true}
	haveCommand := false
	positionalOnly := false

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if positionalOnly || !strings.HasPrefix(arg, "-") || arg == "-" {
			if !haveCommand {
				cmd := Command(arg)
				if _, ok := validCommands[cmd]; !ok {
					return Parsed{}, fmt.Errorf("unknown command: %s", arg)
				}
				parsed.Command = cmd
				parsed.ShowHelp = cmd == CommandHelp
				haveCommand = true
				continue
			}
			parsed.Args = append(parsed.Args, arg)
			continue
		}

		switch arg {
		case "--":
			positionalOnly = true
		case "-h", "--help":
			parsed.ShowHelp = true
			parsed.Command = CommandHelp
		case "--version":
			parsed.ShowHelp = false
			parsed.Command = CommandVersion
		case "--config", "--file", "--listen", "--remote":
			i++
			if i >= len(args) {
				return Parsed{}, fmt.Errorf("%s requires a value", arg)
			}
			switch arg {
			case "--config":
				parsed.ConfigPath = args[i]
			case "--file":
				parsed.File = args[i]
			case "--listen":
				parsed.Listen = args[i]
			case "--remote":
				parsed.Remote = args[i]
			}
		default:
			return Parsed{}, fmt.Errorf("unknown flag: %s", arg)
		}
	}

	if parsed.ShowHelp || parsed.Command == CommandVersion {
		return parsed, nil
	}
	if err := validate(parsed); err != nil {
		return Parsed{}, err
	}
	return parsed, nil
}

func validate(p Parsed) error {
	switch p.Command {
	case CommandCheck:
		if len(p.Args) == 0 {
			return errors.New("check requires at least one FILE")
		}
	case CommandEval:
		if len(p.Args) == 0 {
			return errors.New("eval requires at least one WORD")
		}
		if p.File != "" && p.Remote != "" {
			return errors.New("--file and --remote are mutually exclusive")
		}
	default:
		if len(p.Args) > 0 {
			return fmt.Errorf("unexpected arguments after command %q", p.Command)
		}
	}

	if p.File != "" && p.Command != CommandEval && p.Command != CommandServe {
		return fmt.Errorf("--file is not supported by %q", p.Command)
	}
	if p.Listen != "" && p.Command != CommandServe {
		return fmt.Errorf("--listen is not supported by %q", p.Command)
	}
	if p.Remote != "" && p.Command != CommandEval {
		return fmt.Errorf("--remote is not supported by %q", p.Command)
	}
	return nil
}

func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s [--config PATH] <command> [flags] [args]

Commands:
  menu                 Interactive menu: switch automaton, evaluate words
  check FILE...        Validate automaton description files
  eval WORD...         Print ACCEPTED or REJECTED for each word
  serve                Serve evaluations over gRPC
  doctor               Run configuration and catalog checks
  version              Print version information
  help                 Show this help

Flags:
  --config PATH   Config file path (default: $XDG_CONFIG_HOME/dfarun/config.jsonc)
  --file PATH     Automaton file for eval/serve (default: catalog default slot)
  --listen ADDR   Listen address for serve (default: serve.address)
  --remote ADDR   Evaluate through a running server instead of a file
  --              Treat every following argument as a word
  -h, --help      Show help
  --version       Show version
`, binaryName)
}
