// ABOUTME: Profile command showing the loyalty account
// ABOUTME: Supports renaming the account via --first-name/--last-name flags

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/TagleD/coffee-app/internal/client"
	"github.com/TagleD/coffee-app/internal/session"
)

var (
	profileFirstName string
	profileLastName  string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the loyalty account",
	Long:  `Display the signed-in account: name, spendable beans, lifetime beans, and level progress.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runProfile(ctx, os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	profileCmd.Flags().StringVar(&profileFirstName, "first-name", "", "Update the first name")
	profileCmd.Flags().StringVar(&profileLastName, "last-name", "", "Update the last name")
	rootCmd.AddCommand(profileCmd)
}

// runProfile fetches (and optionally updates) the account
func runProfile(ctx context.Context, w io.Writer) int {
	sess, _, err := newSession()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	state, err := sess.Bootstrap(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if state != session.StateAuthenticated {
		fmt.Fprintln(w, "Not signed in. Run `coffee login <phone>` first.")
		return 1
	}

	if profileFirstName != "" || profileLastName != "" {
		if err := sess.Client().UpdateProfile(ctx, profileFirstName, profileLastName); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 1
		}
		if err := sess.FetchProfile(ctx); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 1
		}
	}

	u := sess.User()
	if u == nil {
		fmt.Fprintln(w, "Error: profile unavailable")
		return 1
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatProfileJSON(u))
	} else {
		fmt.Fprintln(w, formatProfileHuman(u))
	}
	return 0
}

// formatProfileHuman formats the account for human readability
func formatProfileHuman(u *client.User) string {
	next := "max level reached"
	if u.NextLevelBeans != nil {
		next = fmt.Sprintf("%d / %d beans", u.BeansTotal, *u.NextLevelBeans)
	}

	return fmt.Sprintf(`Name:            %s
Spendable beans: %d
Lifetime beans:  %d
Level:           %d
Next level:      %s`,
		u.FullName(), u.Beans, u.BeansTotal, u.Level, next)
}

// formatProfileJSON formats the account as JSON
func formatProfileJSON(u *client.User) string {
	data, _ := json.MarshalIndent(u, "", "  ")
	return string(data)
}
