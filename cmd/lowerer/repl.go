package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"lowerer/internal/diag"
	"lowerer/internal/lower"
	"lowerer/internal/treedoc"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Lower nodes typed one per line as JSON",
	Long: `Start an interactive session. Each line is one node in JSON form, for example
  {"kind":"op","op":"binaryAdd","operands":[{"kind":"leaf","text":"a"},{"kind":"leaf","text":"b"}]}
Commands: :mode concise|accurate|both, :help, :quit`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

const replPrompt = "lower> "

const replHelp = `:mode concise|accurate|both   switch rendering mode
:help                         show this help
:quit                         leave (also Ctrl+D)
anything else                 a JSON node to lower`

var replCommands = []string{":mode concise", ":mode accurate", ":mode both", ":help", ":quit"}

type replState struct {
	modes []lower.Mode
	quit  bool
}

func runRepl(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	line := liner.NewLiner()
	defer line.Close()

	// Enable Ctrl+C to abort current line
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(input string) []string {
		var matches []string
		for _, c := range replCommands {
			if strings.HasPrefix(c, input) {
				matches = append(matches, c)
			}
		}
		return matches
	})

	historyFile := replHistoryPath()
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if err := os.MkdirAll(filepath.Dir(historyFile), 0o755); err != nil {
			return
		}
		if f, err := os.Create(historyFile); err == nil {
			_, _ = line.WriteHistory(f)
			_ = f.Close()
		}
	}()

	state := &replState{modes: []lower.Mode{session.cfg.Mode()}}
	fmt.Fprintf(out, "lowerer repl (%s mode), :help for commands\n", state.modes[0])

	for !state.quit {
		input, err := line.Prompt(replPrompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(out, "^C")
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)
		evalReplLine(out, state, input)
	}
	return nil
}

// evalReplLine handles one line of input: a command or a node.
func evalReplLine(out io.Writer, state *replState, input string) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "exit" || trimmed == "quit" {
		state.quit = true
		return
	}
	if strings.HasPrefix(trimmed, ":") {
		replCommand(out, state, trimmed)
		return
	}

	node, err := treedoc.ParseNode([]byte(trimmed), treedoc.FormatJSON)
	if err != nil {
		printDiagnostics(out, []diag.Diagnostic{diag.FromError("", err)})
		return
	}
	b, id, err := treedoc.BuildNode(node)
	if err != nil {
		printDiagnostics(out, []diag.Diagnostic{diag.FromError("", err)})
		return
	}
	for _, mode := range state.modes {
		text, err := lower.LowerStmt(b, id, mode)
		if err != nil {
			printDiagnostics(out, []diag.Diagnostic{diag.FromError("", err)})
			return
		}
		if len(state.modes) > 1 {
			fmt.Fprintf(out, "%-9s %s\n", mode.String()+":", text)
			continue
		}
		fmt.Fprintln(out, text)
	}
}

func replCommand(out io.Writer, state *replState, command string) {
	fields := strings.Fields(command)
	switch fields[0] {
	case ":quit", ":q":
		state.quit = true
	case ":help", ":h":
		fmt.Fprintln(out, replHelp)
	case ":mode":
		if len(fields) != 2 {
			fmt.Fprintln(out, "usage: :mode concise|accurate|both")
			return
		}
		if fields[1] == "both" {
			state.modes = []lower.Mode{lower.Concise, lower.Accurate}
			fmt.Fprintln(out, "mode: concise + accurate")
			return
		}
		mode, err := lower.ParseMode(fields[1])
		if err != nil {
			fmt.Fprintln(out, err)
			return
		}
		state.modes = []lower.Mode{mode}
		fmt.Fprintf(out, "mode: %s\n", mode)
	default:
		fmt.Fprintf(out, "unknown command %s, try :help\n", fields[0])
	}
}

func replHistoryPath() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "lowerer", "repl_history")
}
