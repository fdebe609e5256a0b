package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in every account that needs it",
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

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := d.rec.ForceLogin(ctx); err != nil {
			return err
		}

		for _, a := range d.store.Accounts() {
			fmt.Printf("%-16s %-16s %s\n", a.ID, a.SessionState, a.StatusMessage)
		}
		return nil
	},
}
