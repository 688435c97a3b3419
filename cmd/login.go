// ABOUTME: Login, register, and logout commands for the coffee CLI
// ABOUTME: Manages the persisted session outside the interactive storefront

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <phone>",
	Short: "Sign in with a phone number",
	Long:  `Sign in to the CoffeeBeam API and persist the session tokens locally.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runLogin(ctx, os.Stdout, args[0], false); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <phone>",
	Short: "Create an account",
	Long:  `Register a new CoffeeBeam account and persist the session tokens locally.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runLogin(ctx, os.Stdout, args[0], true); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the persisted session",
	Run: func(cmd *cobra.Command, args []string) {
		if exitCode := runLogout(os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
}

// runLogin signs in (or registers) and reports the resulting account
func runLogin(ctx context.Context, w io.Writer, phone string, register bool) int {
	sess, _, err := newSession()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if register {
		err = sess.Register(ctx, phone)
	} else {
		err = sess.Login(ctx, phone)
	}
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	if u := sess.User(); u != nil {
		fmt.Fprintf(w, "Signed in as %s (level %d, %d beans)\n", u.FullName(), u.Level, u.Beans)
	} else {
		fmt.Fprintln(w, "Signed in")
	}
	return 0
}

// runLogout clears local session state
func runLogout(w io.Writer) int {
	sess, _, err := newSession()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if err := sess.Logout(); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintln(w, "Signed out")
	return 0
}
