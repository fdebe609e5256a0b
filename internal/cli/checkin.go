package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var checkinCmd = &cobra.Command{
	Use:   "checkin <payload>",
	Short: "Check in every selected account with a QR payload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps()
		if err != nil {
			return err
		}
		defer d.Close()

		targets := d.store.Selected()
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		failed, err := d.rec.RunCheckin(ctx, targets, args[0])
		if err != nil {
			return err
		}

		for _, a := range d.store.Accounts() {
			if !a.Selected {
				continue
			}
			fmt.Printf("%-16s %-8s %s\n", a.ID, a.LastCheckin, a.StatusMessage)
		}
		if failed == 0 {
			fmt.Printf("✅ All %d accounts checked in\n", len(targets))
		} else {
			fmt.Printf("⚠️  %d of %d accounts failed\n", failed, len(targets))
		}
		return nil
	},
}
