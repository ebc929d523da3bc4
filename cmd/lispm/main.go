package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	lisp "github.com/abbit/lisp-machine-sub000"
)

const (
	appName     = "lispm"
	historyFile = ".lispm_history"
	promptMain  = ">>> "
	promptCont  = "... "
)

var banner = fmt.Sprintf("lisp-machine %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", lisp.Version)

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch cmd := os.Args[1]; cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl())
	case "version":
		fmt.Println(lisp.Version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`lisp-machine %s

Usage:
  %s run <file.scm>    Run a script.
  %s repl              Start the REPL.
  %s version           Print the version.

`, lisp.Version, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <file.scm>\n", appName)
		return 2
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, args[0], err)
		return 1
	}

	ip := lisp.New()
	if _, err := ip.EvalSource(string(src)); err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl() int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip := lisp.New()

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if strings.EqualFold(trimmed, ":quit") {
				return 0
			}
			fmt.Println("unknown command. Type :quit to exit.")
			continue
		}

		v, err := ip.EvalSource(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			continue
		}
		if v.Tag != lisp.TagVoid {
			fmt.Println(blue(lisp.WriteString(v)))
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}

	return 0
}

// readByParseProbe keeps prompting for continuation lines while the input
// parses as incomplete (unclosed parens).
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		_, perr := lisp.ParseSource(src)
		if perr == nil {
			return src, true
		}
		if lisp.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}
