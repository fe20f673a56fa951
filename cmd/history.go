package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"pomodoro/internal/core/model"
	"pomodoro/internal/core/pomodoro"
)

type periodLister interface {
	RecentPeriods(ctx context.Context, limit int) ([]model.PeriodRecord, error)
}

func printHistory(ctx context.Context, out io.Writer, store periodLister, limit int) error {
	records, err := store.RecentPeriods(ctx, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		_, err := fmt.Fprintln(out, "no periods recorded yet")
		return err
	}

	for _, record := range records {
		_, err := fmt.Fprintf(out, "%s  %-11s  %s\n",
			record.EndedAt.Local().Format(time.DateTime),
			record.Kind.Title(),
			pomodoro.FormatClock(record.LengthSeconds),
		)
		if err != nil {
			return err
		}
	}
	return nil
}
