package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"campuscal/internal/ics"
)

var exportCmd = &cobra.Command{
	Use:   "export <file.ics>",
	Short: "Export all events to an ICS file",
	Long:  `Write every stored event to an iCalendar file that other calendar apps can import.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if cfg == nil {
		initConfig()
	}

	ctx := context.Background()
	store, _, repo, err := loadData(ctx, zap.NewNop())
	if err != nil {
		return err
	}
	if repo != nil {
		defer repo.Close()
	}

	events := store.Events()
	if err := ics.ExportFile(args[0], events); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Printf("Exported %d events to %s\n", len(events), args[0])
	return nil
}
