// ABOUTME: Checkout screen collecting card details before placing the order
// ABOUTME: Skips card entry entirely when the basket has no card-paid lines

package checkout

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"github.com/TagleD/coffee-app/internal/tui/icons"
	"github.com/TagleD/coffee-app/internal/tui/styles"
	"github.com/TagleD/coffee-app/internal/tui/widgets"
)

// SubmitMsg is sent when the user confirms the order
type SubmitMsg struct{}

// CancelledMsg is sent when the user backs out of checkout
type CancelledMsg struct{}

// Card validation patterns. Details are validated locally and discarded;
// the order endpoint never sees them.
var (
	cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
	cardExpiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cardCVCPattern    = regexp.MustCompile(`^\d{3}$`)
)

// Checkout confirms the basket and collects payment details
type Checkout struct {
	form     *huh.Form
	needCard bool
	subtotal decimal.Decimal
	beans    int64
	width    int

	cardNumber string
	cardExpiry string
	cardCVC    string
	confirmed  bool
}

// New creates the checkout screen. Card fields appear only when the
// card subtotal is positive; an all-beans basket confirms directly.
func New(subtotal decimal.Decimal, beans int64) *Checkout {
	c := &Checkout{
		needCard: subtotal.IsPositive(),
		subtotal: subtotal,
		beans:    beans,
	}
	c.form = c.createForm()
	return c
}

func (c *Checkout) createForm() *huh.Form {
	if !c.needCard {
		c.confirmed = true
		return huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Pay with beans").
					Description(fmt.Sprintf("This order costs %d beans. Place it?", c.beans)).
					Affirmative("Place order").
					Negative("Back").
					Value(&c.confirmed),
			),
		).WithTheme(styles.FormTheme())
	}
	c.confirmed = true

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Card number").
				Placeholder("0000000000000000").
				CharLimit(16).
				Value(&c.cardNumber).
				Validate(ValidateCardNumber),
			huh.NewInput().
				Title("Expiry").
				Description("MM/YY").
				Placeholder("09/27").
				CharLimit(5).
				Value(&c.cardExpiry).
				Validate(ValidateCardExpiry),
			huh.NewInput().
				Title("CVC").
				Placeholder("000").
				CharLimit(3).
				Value(&c.cardCVC).
				Validate(ValidateCardCVC),
		).Title("Payment"),
	).WithTheme(styles.FormTheme())
}

// SetWidth sets the screen width for rendering
func (c *Checkout) SetWidth(width int) {
	c.width = width
}

// Init implements tea.Model
func (c *Checkout) Init() tea.Cmd {
	return c.form.Init()
}

// Update implements tea.Model
func (c *Checkout) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return c, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	if c.form.State == huh.StateCompleted {
		// Card details are not retained past this point
		c.cardNumber, c.cardExpiry, c.cardCVC = "", "", ""
		if !c.confirmed {
			return c, func() tea.Msg { return CancelledMsg{} }
		}
		return c, func() tea.Msg { return SubmitMsg{} }
	}

	return c, cmd
}

// View implements tea.Model
func (c *Checkout) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Card.String() + " Checkout"))
	sb.WriteString("\n")

	summary := fmt.Sprintf("Card: %s", styles.PriceStyle.Render(c.subtotal.StringFixed(0)+" ₸"))
	if c.beans > 0 {
		summary += "   Beans: " + widgets.BeanAmount(c.beans)
	}
	sb.WriteString(summary)
	sb.WriteString("\n\n")

	sb.WriteString(c.form.View())
	return sb.String()
}

// ValidateCardNumber checks for exactly 16 digits
func ValidateCardNumber(s string) error {
	if !cardNumberPattern.MatchString(s) {
		return errors.New("card number must be 16 digits")
	}
	return nil
}

// ValidateCardExpiry checks MM/YY with a real month
func ValidateCardExpiry(s string) error {
	if !cardExpiryPattern.MatchString(s) {
		return errors.New("expiry must be MM/YY")
	}
	return nil
}

// ValidateCardCVC checks for exactly 3 digits
func ValidateCardCVC(s string) error {
	if !cardCVCPattern.MatchString(s) {
		return errors.New("CVC must be 3 digits")
	}
	return nil
}
