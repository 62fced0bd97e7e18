package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/brudallism/macromuse-backend/internal/app"
	"github.com/brudallism/macromuse-backend/internal/domain"
)

type idList []string

func (l *idList) String() string { return strings.Join(*l, ",") }
func (l *idList) Set(v string) error {
	v = strings.TrimSpace(v)
	if v != "" {
		*l = append(*l, v)
	}
	return nil
}

func main() {
	var users idList
	var startRaw, endRaw string
	flag.Var(&users, "user", "user id to backfill (repeatable; all users when omitted)")
	flag.StringVar(&startRaw, "start", "", "first day to recompute (YYYY-MM-DD)")
	flag.StringVar(&endRaw, "end", "", "last day to recompute (YYYY-MM-DD, default today)")
	flag.Parse()

	if startRaw == "" {
		fmt.Println("-start is required")
		os.Exit(1)
	}
	start, err := domain.ParseDate(startRaw)
	if err != nil {
		fmt.Printf("parse -start: %v\n", err)
		os.Exit(1)
	}
	end := domain.DateOnly(time.Now().UTC())
	if endRaw != "" {
		if end, err = domain.ParseDate(endRaw); err != nil {
			fmt.Printf("parse -end: %v\n", err)
			os.Exit(1)
		}
	}

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx := context.Background()

	ids := make([]uuid.UUID, 0, len(users))
	for _, raw := range users {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil || id == uuid.Nil {
			fmt.Printf("skipping invalid user id %q\n", raw)
			continue
		}
		ids = append(ids, id)
	}
	if len(users) == 0 {
		var err error
		ids, err = usersWithIntake(ctx, application, start, end)
		if err != nil {
			fmt.Printf("list users: %v\n", err)
			os.Exit(1)
		}
	}
	if len(ids) == 0 {
		fmt.Println("no users to backfill")
		return
	}

	exitCode := 0
	for _, userID := range ids {
		report, err := application.Services.Rollup.Backfill(ctx, userID, start, end)
		if err != nil {
			fmt.Printf("user %s: backfill failed: %v\n", userID, err)
			exitCode = 1
			continue
		}
		fmt.Printf("user %s: days %d (failed %d), weeks %d (skipped %d, failed %d), months %d (skipped %d, failed %d)\n",
			userID,
			report.DaysProcessed, report.DaysFailed,
			report.WeeksProcessed, report.WeeksSkipped, report.WeeksFailed,
			report.MonthsProcessed, report.MonthsSkipped, report.MonthsFailed)
		for _, msg := range report.Errors {
			fmt.Printf("  %s\n", msg)
			exitCode = 1
		}
	}
	if exitCode != 0 {
		application.Close()
		os.Exit(exitCode)
	}
}

func usersWithIntake(ctx context.Context, application *app.App, start, end time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := application.DB.WithContext(ctx).
		Model(&domain.IntakeEntry{}).
		Where("consumed_at >= ? AND consumed_at < ?", start, end.AddDate(0, 0, 1)).
		Distinct().
		Pluck("user_id", &ids).Error
	return ids, err
}
