package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/junaidjmomin/classroom/assets"
	"github.com/junaidjmomin/classroom/core"
	"github.com/junaidjmomin/classroom/core/task"
	"github.com/junaidjmomin/classroom/services/email"
	"github.com/junaidjmomin/classroom/services/logger"
	"github.com/junaidjmomin/classroom/storage/database"
	"github.com/junaidjmomin/classroom/storage/database/sqlx"
	"github.com/junaidjmomin/classroom/storage/inmem"
)

var logger *logsvc.RollbarLogger

func main() {
	conf := core.NewConfig()
	logger = logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	defer logger.Close()

	// set up store
	var store core.Store
	var db *sql.DB
	if conf.StoreDriver == core.StorePostgres {
		errAndDie(database.CreateIfNotExist(conf))
		xdb, err := database.Open(conf)
		errAndDie(err)
		defer xdb.Close()
		errAndDie(database.Migrate(context.Background(), xdb.DB))

		db = xdb.DB
		store = sqlxstore.NewStore(xdb)
	} else {
		store = inmem.NewStore()
	}

	// set up services
	var mailSvc mailer
	if conf.Debug || conf.SendgridAPIKey == "" {
		mailSvc = emailsvc.NewConsoleService(conf, logger).(mailer)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger).(mailer)
	}
	core.ParseEmailTemplates(assets.FS, conf.Debug, logger)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	task.InitValidators(validate, translator)

	// start CLI
	cli := commandLine{
		db:      db,
		taskSvc: task.NewService(store, mailSvc, validate, logger, conf),
		in:      os.Stdin,
		out:     os.Stdout,
	}
	err := cli.run(os.Args)
	mailSvc.Wait()
	if err != nil {
		if err != errHelp {
			logger.Error("error: "+err.Error(), err)
		}
		logger.Close()
		os.Exit(1)
	}
}

// mailer is an EmailService whose pending messages can be awaited before exiting.
type mailer interface {
	core.EmailService
	Wait()
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
