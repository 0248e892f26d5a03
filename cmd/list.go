package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"campuscal/internal/calendar"
	"campuscal/internal/parser"
)

var (
	listDate  string
	listUntil string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List a day's events and exit",
	Long:  `List all events for a day (or a range of days) in a simple text format and exit.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listDate, "date", "today", "Day to list (e.g. today, tomorrow, next friday, 2026-03-10)")
	listCmd.Flags().StringVar(&listUntil, "until", "", "List every day through this date")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	if cfg == nil {
		initConfig()
	}

	dates := parser.NewDateParser()
	from, err := dates.ParseDay(listDate)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", listDate, err)
	}

	until := from
	if listUntil != "" {
		until, err = dates.ParseDay(listUntil)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", listUntil, err)
		}
		if until.Before(from) {
			return fmt.Errorf("--until %q is before --date %q", listUntil, listDate)
		}
	}

	ctx := context.Background()
	store, pins, repo, err := loadData(ctx, zap.NewNop())
	if err != nil {
		return err
	}
	if repo != nil {
		defer repo.Close()
	}

	for day := from; ; day = day.AddDate(0, 0, 1) {
		printDay(store, pins, day)
		if !day.Before(until) {
			break
		}
	}
	return nil
}

func printDay(store *calendar.Store, pins *calendar.PinSet, day time.Time) {
	events := store.EventsOn(day)

	header := fmt.Sprintf("Events for %s", day.Format(cfg.DateFormat))
	if pins.Pinned(calendar.KeyOf(day)) {
		header += " (pinned)"
	}
	fmt.Println(header + ":")
	if len(events) == 0 {
		fmt.Println("  No events found.")
		return
	}

	for _, ev := range events {
		timeStr := "All day"
		if ev.TimeOfDay != "" {
			timeStr = ev.TimeOfDay
		}

		fmt.Printf("  %s - %s", timeStr, ev.Title)
		if ev.Days() > 1 {
			fmt.Printf(" (%s – %s)", ev.Start.Format("Jan 2"), ev.End.Format("Jan 2"))
		}
		if ev.Feed != "" {
			fmt.Printf(" [%s]", ev.Feed)
		}
		fmt.Println()
	}
}
