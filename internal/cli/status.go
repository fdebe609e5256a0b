package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statusProbe bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session status for all accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps()
		if err != nil {
			return err
		}
		defer d.Close()

		if d.store.Len() == 0 {
			fmt.Println("No accounts registered.")
			return nil
		}

		if statusProbe {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			if err := d.rec.RunProbe(ctx); err != nil {
				return err
			}
		}

		now := time.Now()
		for _, a := range d.store.Accounts() {
			expiry := "-"
			if a.SessionExpiresAt != nil {
				if remaining := a.SessionExpiresAt.Sub(now); remaining > 0 {
					expiry = remaining.Round(time.Minute).String()
				} else {
					expiry = "expired"
				}
			}
			fmt.Printf("%-16s %-16s ttl=%-8s %s\n", a.ID, a.SessionState, expiry, a.StatusMessage)
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusProbe, "probe", false, "Re-verify sessions against the backend first")
}
