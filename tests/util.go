package testutil

import (
	"fmt"
	"net/mail"
	"sync"
	"time"

	"github.com/junaidjmomin/classroom/core"
)

// Config returns a configuration suitable for tests: in-memory store, no external services.
func Config() *core.Config {
	return &core.Config{
		AppName:          "Classroom",
		Env:              "TEST",
		Build:            "test",
		TestMode:         true,
		WorkDir:          core.Getwd(),
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: mail.Address{Name: "Classroom", Address: "noreply@test.test"},
		StoreDriver:      core.StoreMemory,
		DigestSize:       3,
		Server: core.ServerConfig{
			Address:         ":0",
			Host:            "localhost",
			ShutdownTimeout: time.Second,
			AllowedOrigins:  []string{"http://localhost:3000"},
		},
	}
}

// Entry is a message logged through Logger.
type Entry struct {
	Level   string
	Message string
	Args    []interface{}
}

// Logger is a core.Logger recording every entry instead of printing it.
type Logger struct {
	mu      sync.Mutex
	entries []Entry
}

var _ core.Logger = (*Logger)(nil)

func (l *Logger) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Level: level, Message: msg, Args: args})
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("debug", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("info", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("warn", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("error", msg, args) }

func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.log("fatal", msg, args)
	panic(fmt.Sprintf("fatal: %s", msg))
}

// Entries returns the entries logged at level, all of them when level is empty.
func (l *Logger) Entries(level string) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	entries := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		if level == "" || e.Level == level {
			entries = append(entries, e)
		}
	}
	return entries
}
