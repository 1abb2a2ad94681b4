package main

import (
	"context"

	"github.com/junaidjmomin/classroom/storage/database"
)

var gooseRunFunc = database.RunMigrations // mockable

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errNoDatabase
	}
	return gooseRunFunc(context.Background(), cli.db, args[0], args[1:]...)
}
