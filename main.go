package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	"comprehend/lang"
	"comprehend/runtime"
)

func main() {
	envFile := flag.String("env", "", "YAML file of variable bindings to preload")
	flag.Parse()

	env := runtime.New()
	if *envFile != "" {
		if err := loadEnvFile(*envFile, env); err != nil {
			fmt.Fprintf(os.Stderr, "comprehend: %v\n", err)
			os.Exit(1)
		}
	}

	args := flag.Args()
	if len(args) > 0 {
		script := args[0]
		var err error
		if script == "-" {
			err = runScript(env, os.Stdin)
		} else {
			f, ferr := os.Open(script)
			if ferr != nil {
				fmt.Fprintf(os.Stderr, "comprehend: %v\n", ferr)
				os.Exit(1)
			}
			err = runScript(env, f)
			f.Close()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "comprehend: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if isInteractive() {
		runInteractiveREPL(env)
		return
	}
	runBufferedREPL(env, bufio.NewReader(os.Stdin))
}

func isInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// runScript executes statements line by line, printing the value of each
// bare expression. The first failing line stops the run.
func runScript(env *lang.Env, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		val, hasValue, err := runtime.Exec(env, scanner.Text())
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if hasValue {
			fmt.Println(val.String())
		}
	}
	return scanner.Err()
}

// runBufferedREPL serves a non-interactive stdin: errors are reported and
// the session continues.
func runBufferedREPL(env *lang.Env, reader *bufio.Reader) {
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			execAndPrint(env, line)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				fmt.Fprintf(os.Stderr, "read error: %v\n", err)
			}
			return
		}
	}
}

func runInteractiveREPL(env *lang.Env) {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)

	historyPath := replHistoryPath()
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			state.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				state.WriteHistory(f)
				f.Close()
			}
		}()
	}

	for {
		input, err := state.Prompt("comp> ")
		if err != nil {
			switch {
			case errors.Is(err, liner.ErrPromptAborted):
				fmt.Println()
				continue
			case errors.Is(err, io.EOF):
				fmt.Println()
				return
			default:
				fmt.Fprintf(os.Stderr, "read error: %v\n", err)
				return
			}
		}
		if trimmed := strings.TrimSpace(input); trimmed != "" {
			state.AppendHistory(trimmed)
		}
		execAndPrint(env, input)
	}
}

func execAndPrint(env *lang.Env, line string) {
	val, hasValue, err := runtime.Exec(env, line)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if hasValue {
		fmt.Println(val.String())
	}
}

func replHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".comprehend_history")
}
