package main

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/junaidjmomin/classroom/core"
)

func (cli *commandLine) parse(text string) error {
	tasks, err := cli.taskSvc.Parse(context.Background(), text)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Fprintln(cli.out, "no tasks found")
		return nil
	}

	now := time.Now()
	for _, t := range tasks {
		fmt.Fprintf(cli.out, "%s\t%s\t%s\t%s\t%.2f\n", t.ID, t.Course, t.Title, t.DueLabel(now), t.Score())
	}
	return nil
}

func (cli *commandLine) recommend() error {
	recs, err := cli.taskSvc.Recommendations(context.Background())
	if err != nil {
		return err
	}
	for _, rec := range recs {
		fmt.Fprintln(cli.out, "- "+rec)
	}
	return nil
}

func (cli *commandLine) digest(to string) error {
	addrs, err := mail.ParseAddressList(to)
	if err != nil {
		return core.NewValidationError(errors.Wrap(err, "parsing recipients"), core.FieldError{Field: "to", Error: err.Error()})
	}

	recipients := make([]mail.Address, 0, len(addrs))
	for _, a := range addrs {
		recipients = append(recipients, *a)
	}
	if err = cli.taskSvc.SendDigest(context.Background(), recipients...); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "digest sent to %d recipient(s)\n", len(recipients))
	return nil
}
