package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/existflow/onescan/internal/model"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage registered accounts",
}

var accountAddCmd = &cobra.Command{
	Use:   "add [id]",
	Short: "Register a new account",
	RunE:  runAccountAdd,
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered accounts",
	RunE:  runAccountList,
}

var accountRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete an account",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountRemove,
}

var accountSelectCmd = &cobra.Command{
	Use:   "select <id|all|none>",
	Short: "Toggle which accounts join the next scan",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountSelect,
}

func init() {
	accountCmd.AddCommand(accountAddCmd)
	accountCmd.AddCommand(accountListCmd)
	accountCmd.AddCommand(accountRemoveCmd)
	accountCmd.AddCommand(accountSelectCmd)
}

func runAccountAdd(cmd *cobra.Command, args []string) error {
	d, err := openDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	var id string
	if len(args) > 0 {
		id = args[0]
	} else {
		reader := bufio.NewReader(os.Stdin)
		fmt.Print("Account ID: ")
		id, _ = reader.ReadString('\n')
		id = strings.TrimSpace(id)
	}
	if id == "" {
		return fmt.Errorf("account id is required")
	}

	fmt.Print("Password: ")
	passwordBytes, _ := term.ReadPassword(int(syscall.Stdin))
	password := string(passwordBytes)
	fmt.Println()

	if err := d.store.Add(id, password); err != nil {
		return err
	}

	fmt.Printf("✅ Added %s\n", id)
	return nil
}

func runAccountList(cmd *cobra.Command, args []string) error {
	d, err := openDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	accounts := d.store.Accounts()
	if len(accounts) == 0 {
		fmt.Println("No accounts registered. Run 'onescan account add'.")
		return nil
	}

	now := time.Now()
	for _, a := range accounts {
		sel := " "
		if a.Selected {
			sel = "x"
		}
		badge := ""
		if a.BadgeVisible(now) {
			if a.LastCheckin == model.CheckinSuccess {
				badge = " [checked in]"
			} else {
				badge = " [check-in failed]"
			}
		}
		fmt.Printf("[%s] %-16s %-16s %s%s\n", sel, a.ID, a.SessionState, a.StatusMessage, badge)
	}
	return nil
}

func runAccountRemove(cmd *cobra.Command, args []string) error {
	d, err := openDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	d.store.Remove(args[0])
	fmt.Printf("Removed %s\n", args[0])
	return nil
}

func runAccountSelect(cmd *cobra.Command, args []string) error {
	d, err := openDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	switch args[0] {
	case "all":
		d.store.SelectAll(true)
		fmt.Println("All accounts selected")
	case "none":
		d.store.SelectAll(false)
		fmt.Println("All accounts deselected")
	default:
		if _, ok := d.store.Get(args[0]); !ok {
			return fmt.Errorf("no such account: %s", args[0])
		}
		d.store.ToggleSelected(args[0])
		a, _ := d.store.Get(args[0])
		fmt.Printf("%s selected=%v\n", a.ID, a.Selected)
	}
	return nil
}
