package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/existflow/onescan/internal/api"
	"github.com/spf13/cobra"
)

var historyTarget string

var historyCmd = &cobra.Command{
	Use:   "history <id>",
	Short: "Show check-in history for an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps()
		if err != nil {
			return err
		}
		defer d.Close()

		a, ok := d.store.Get(args[0])
		if !ok {
			return fmt.Errorf("no such account: %s", args[0])
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		records := d.client.History(ctx, api.Credential{ID: a.ID, Password: a.Secret}, historyTarget)
		if len(records) == 0 {
			fmt.Println("No records found.")
			return nil
		}

		for _, r := range records {
			scope := "monthly"
			if r.IsToday {
				scope = "today"
			}
			fmt.Printf("%-8s %-24s %-8s %s\n", scope, r.CourseName, r.Section, r.Time)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyTarget, "target", "", "Record page URL to scrape")
}
