// ABOUTME: Order history screen listing past orders newest first
// ABOUTME: Expands the selected order to show its line items

package orders

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/TagleD/coffee-app/internal/client"
	"github.com/TagleD/coffee-app/internal/tui/icons"
	"github.com/TagleD/coffee-app/internal/tui/styles"
	"github.com/TagleD/coffee-app/internal/tui/widgets"
)

// Orders renders the order history
type Orders struct {
	orders []client.Order
	cursor int
	width  int
	height int
}

// New creates the order history screen
func New(orders []client.Order) *Orders {
	return &Orders{orders: orders}
}

// SetOrders replaces the history after a refresh
func (o *Orders) SetOrders(orders []client.Order) {
	o.orders = orders
	if o.cursor >= len(orders) {
		o.cursor = 0
	}
}

// SetSize updates the screen dimensions
func (o *Orders) SetSize(width, height int) {
	o.width = width
	o.height = height
}

// Init implements tea.Model
func (o *Orders) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (o *Orders) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}

	switch key.String() {
	case "up", "k":
		if o.cursor > 0 {
			o.cursor--
		}
	case "down", "j":
		if o.cursor < len(o.orders)-1 {
			o.cursor++
		}
	}
	return o, nil
}

// View implements tea.Model
func (o *Orders) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Receipt.String() + " Order History"))
	sb.WriteString("\n")

	if len(o.orders) == 0 {
		sb.WriteString(styles.Subtitle.Render("No orders yet"))
		return sb.String()
	}

	for i, order := range o.orders {
		header := fmt.Sprintf("#%d  %s  %s  %s",
			order.ID,
			order.CreatedAt.Format("02 Jan 15:04"),
			styles.PriceStyle.Render(order.TotalPrice.StringFixed(0)+" ₸"),
			widgets.RewardBadge(order.BeansEarned),
		)

		if i == o.cursor {
			sb.WriteString(styles.SelectedRow.Render("> " + header))
			sb.WriteString("\n")
			for _, item := range order.Items {
				sb.WriteString(fmt.Sprintf("    %s x%d  %s\n",
					item.Product.Name, item.Quantity,
					item.PricePerItem.StringFixed(0)+" ₸"))
			}
		} else {
			sb.WriteString("  " + header + "\n")
		}
	}

	return sb.String()
}
