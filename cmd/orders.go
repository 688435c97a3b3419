// ABOUTME: Orders command printing the order history
// ABOUTME: Requires a signed-in session restored from the token store

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/TagleD/coffee-app/internal/client"
	"github.com/TagleD/coffee-app/internal/session"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Show order history",
	Long:  `Display past orders with totals and loyalty beans earned, newest first.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runOrders(ctx, os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(ordersCmd)
}

// runOrders fetches and prints order history
func runOrders(ctx context.Context, w io.Writer) int {
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

	history, err := sess.Client().OrderHistory(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatOrdersJSON(history))
	} else {
		fmt.Fprintln(w, formatOrdersHuman(history))
	}
	return 0
}

// formatOrdersHuman formats the history with one block per order
func formatOrdersHuman(history []client.Order) string {
	if len(history) == 0 {
		return "No orders yet."
	}

	var sb strings.Builder
	for _, order := range history {
		sb.WriteString(fmt.Sprintf("#%d  %s  %s ₸  +%d beans\n",
			order.ID,
			order.CreatedAt.Format("2006-01-02 15:04"),
			order.TotalPrice.StringFixed(0),
			order.BeansEarned))
		for _, item := range order.Items {
			sb.WriteString(fmt.Sprintf("    %s x%d @ %s ₸\n",
				item.Product.Name, item.Quantity, item.PricePerItem.StringFixed(0)))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// formatOrdersJSON formats the history as JSON
func formatOrdersJSON(history []client.Order) string {
	data, _ := json.MarshalIndent(history, "", "  ")
	return string(data)
}
