package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/junaidjmomin/classroom/assets"
	"github.com/junaidjmomin/classroom/core"
	"github.com/junaidjmomin/classroom/core/task"
	"github.com/junaidjmomin/classroom/services/email"
	"github.com/junaidjmomin/classroom/storage/inmem"
	"github.com/junaidjmomin/classroom/tests"
)

const chemistryText = "I need to finish my chemistry lab report due tomorrow"

var mailSvc *emailsvc.ConsoleServiceMock

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	conf := testutil.Config()
	logger := new(testutil.Logger)
	core.ParseEmailTemplates(assets.FS, true /* strict */, logger)
	mailSvc = emailsvc.NewConsoleServiceMock(conf, logger)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	task.InitValidators(validate, translator)

	origIsTerminal := isTerminalFunc
	t.Cleanup(func() { isTerminalFunc = origIsTerminal })
	isTerminalFunc = func(fd int) bool { return true }

	// start CLI
	out := new(bytes.Buffer)
	return &commandLine{
		db:      new(sql.DB), // never reached: migrations are mocked
		taskSvc: task.NewService(inmem.NewStore(), mailSvc, validate, logger, conf),
		in:      strings.NewReader(""),
		out:     out,
	}, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func checkRun(t *testing.T, cli *commandLine, tt cliTest) bool {
	t.Helper()

	args := append([]string{"admin"}, tt.args...)
	err := cli.run(args)
	switch {
	case tt.wantErr != nil:
		return assert.Equal(t, tt.wantErr, err)
	case tt.wantErrStr != "":
		return assert.EqualError(t, err, tt.wantErrStr)
	default:
		return assert.NoError(t, err)
	}
}

func Test_commandLine_help(t *testing.T) {
	cli, out := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "migrate: no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "parse: no text", args: []string{"parse"}, wantErr: errHelp},
		{name: "parse: blank text", args: []string{"parse", "-text", "  "}, wantErr: errHelp},
		{name: "digest: no recipients", args: []string{"digest"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkRun(t, cli, tt)
		})
	}
	assert.Contains(t, out.String(), "Usage:")
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	origRun := gooseRunFunc
	t.Cleanup(func() { gooseRunFunc = origRun })
	gooseRunFunc = func(ctx context.Context, db *sql.DB, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "tasks", "sql"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkRun(t, cli, tt)
		})
	}

	t.Run("memory store", func(t *testing.T) {
		cli.db = nil
		checkRun(t, cli, cliTest{args: []string{"migrate", "up"}, wantErr: errNoDatabase})
	})
}

func Test_commandLine_parse(t *testing.T) {
	type extra struct {
		stdin string
		piped bool
	}
	tests := []cliTest{
		{name: "from flag", args: []string{"parse", "-text", chemistryText}},
		{name: "from stdin", args: []string{"parse"}, extra: extra{stdin: chemistryText, piped: true}},
		{name: "flag wins over stdin", args: []string{"parse", "-text", chemistryText}, extra: extra{stdin: "lol", piped: true}},
		{name: "nothing piped", args: []string{"parse"}, extra: extra{piped: true}, wantErr: errHelp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, out := setup(t)
			if ex, ok := tt.extra.(extra); ok {
				cli.in = strings.NewReader(ex.stdin)
				isTerminalFunc = func(fd int) bool { return !ex.piped }
			}

			if !checkRun(t, cli, tt) || tt.wantErr != nil {
				return
			}
			assert.Contains(t, out.String(), "Chemistry\tFinish my chemistry lab report due tomorrow\t")

			tasks, err := cli.taskSvc.Query(context.Background(), task.QueryFilter{}, nil)
			if assert.NoError(t, err) && assert.Len(t, tasks, 1) {
				assert.Equal(t, task.SourceParsed, tasks[0].Source)
			}
		})
	}

	t.Run("no tasks found", func(t *testing.T) {
		cli, out := setup(t)
		checkRun(t, cli, cliTest{args: []string{"parse", "-text", "The weather is lovely this afternoon."}})
		assert.Equal(t, "no tasks found\n", out.String())
	})
}

func Test_commandLine_recommend(t *testing.T) {
	cli, out := setup(t)

	checkRun(t, cli, cliTest{args: []string{"recommend"}})
	assert.Equal(t, "- You're all caught up! No pending tasks right now.\n", out.String())

	out.Reset()
	checkRun(t, cli, cliTest{args: []string{"parse", "-text", chemistryText}})
	out.Reset()
	checkRun(t, cli, cliTest{args: []string{"recommend"}})
	assert.Contains(t, out.String(), "- 1 task needs urgent attention: due within 24 hours.\n")
}

func Test_commandLine_digest(t *testing.T) {
	cli, out := setup(t)
	checkRun(t, cli, cliTest{args: []string{"parse", "-text", chemistryText}})
	out.Reset()

	t.Run("invalid recipients", func(t *testing.T) {
		err := cli.run([]string{"admin", "digest", "-to", "lol"})
		assert.IsType(t, &core.ValidationError{}, err)
		assert.Empty(t, mailSvc.Sent())
	})

	t.Run("sent", func(t *testing.T) {
		checkRun(t, cli, cliTest{args: []string{"digest", "-to", "Awe <awe@test.cd>, lol@test.cd"}})
		assert.Equal(t, "digest sent to 2 recipient(s)\n", out.String())

		sent := mailSvc.Sent()
		if assert.Len(t, sent, 1) {
			assert.Len(t, sent[0].To, 2)
			assert.Equal(t, "Your task digest", sent[0].Subject)
			assert.Contains(t, sent[0].TextContent, "Finish my chemistry lab report due tomorrow")
		}
	})
}
