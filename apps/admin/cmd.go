package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/junaidjmomin/classroom/core/task"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp       = errors.New("help provided")
	errNoDatabase = errors.New("migrations need the postgres store driver")
)

type commandLine struct {
	db      *sql.DB // nil unless the postgres store is used
	taskSvc task.ServiceInterface
	in      io.Reader
	out     io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, down, status, redo, version...)")
	fmt.Fprintln(cli.out, "  parse [-text TEXT]     - extract tasks from text (read from stdin when piped)")
	fmt.Fprintln(cli.out, "  recommend              - print recommendations for the current tasks")
	fmt.Fprintln(cli.out, "  digest -to EMAILS      - e-mail the task digest")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	parseCmd := flag.NewFlagSet("parse", flag.ExitOnError)
	parseText := parseCmd.String("text", "", "The text to extract tasks from. Read from stdin when omitted.")

	digestCmd := flag.NewFlagSet("digest", flag.ExitOnError)
	digestTo := digestCmd.String("to", "", "Comma-separated recipients of the digest.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "parse":
		if err := parseCmd.Parse(args[2:]); err != nil {
			return err
		}
		text := *parseText
		if text == "" && !isTerminalFunc(syscall.Stdin) {
			b, err := io.ReadAll(cli.in)
			if err != nil {
				return err
			}
			text = string(b)
		}
		if strings.TrimSpace(text) == "" {
			parseCmd.Usage()
			return errHelp
		}
		return cli.parse(text)
	case "recommend":
		return cli.recommend()
	case "digest":
		if err := digestCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *digestTo == "" {
			digestCmd.Usage()
			return errHelp
		}
		return cli.digest(*digestTo)
	default:
		cli.printUsage()
		return errHelp
	}
}
