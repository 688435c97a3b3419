// ABOUTME: Basket screen listing lines with both currency subtotals
// ABOUTME: Supports removing lines, clearing the basket, and starting checkout

package basketview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/TagleD/coffee-app/internal/basket"
	"github.com/TagleD/coffee-app/internal/tui/icons"
	"github.com/TagleD/coffee-app/internal/tui/styles"
	"github.com/TagleD/coffee-app/internal/tui/widgets"
)

// CheckoutMsg asks the app to start checkout with the current basket
type CheckoutMsg struct{}

// RemoveMsg asks the basket owner to drop a product line
type RemoveMsg struct {
	ProductID int64
}

// ClearMsg asks the basket owner to empty the basket
type ClearMsg struct{}

// BasketView renders the current basket contents
type BasketView struct {
	bsk    *basket.Basket
	cursor int
	width  int
}

// New creates the basket screen over the shared basket store
func New(b *basket.Basket) *BasketView {
	return &BasketView{bsk: b}
}

// SetSize updates the screen dimensions
func (v *BasketView) SetSize(width, _ int) {
	v.width = width
}

// Init implements tea.Model
func (v *BasketView) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (v *BasketView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	lines := v.bsk.Lines()

	switch key.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(lines)-1 {
			v.cursor++
		}
	case "x", "delete":
		if v.cursor < len(lines) {
			id := lines[v.cursor].ProductID
			if v.cursor == len(lines)-1 && v.cursor > 0 {
				v.cursor--
			}
			return v, func() tea.Msg { return RemoveMsg{ProductID: id} }
		}
	case "c":
		v.cursor = 0
		return v, func() tea.Msg { return ClearMsg{} }
	case "enter":
		if len(lines) > 0 {
			return v, func() tea.Msg { return CheckoutMsg{} }
		}
	}

	return v, nil
}

// View implements tea.Model
func (v *BasketView) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Basket.String() + " Basket"))
	sb.WriteString("\n")

	lines := v.bsk.Lines()
	if len(lines) == 0 {
		sb.WriteString(styles.Subtitle.Render("Your basket is empty"))
		return sb.String()
	}

	for i, line := range lines {
		var amount string
		if line.PaidWithBeans {
			amount = widgets.BeanAmount(line.LineBeans())
		} else {
			amount = styles.PriceStyle.Render(line.LineTotal().StringFixed(0) + " ₸")
		}

		row := fmt.Sprintf("%-22s x%-3d %s %s",
			truncate(line.Name, 22), line.Quantity, widgets.PaymentBadge(line.PaidWithBeans), amount)
		if i == v.cursor {
			sb.WriteString(styles.SelectedRow.Render("> " + row))
		} else {
			sb.WriteString("  " + row)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Items: %s   Card: %s   Beans: %s",
		styles.ValueStyle.Render(fmt.Sprintf("%d", v.bsk.ItemCount())),
		styles.PriceStyle.Render(v.bsk.Subtotal().StringFixed(0)+" ₸"),
		widgets.BeanAmount(v.bsk.BeansSubtotal()),
	))

	return sb.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
