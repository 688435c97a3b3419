// ABOUTME: Storefront screen listing products with tag filtering
// ABOUTME: Handles quantity selection, payment mode toggle, and add-to-basket requests

package shop

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/TagleD/coffee-app/internal/client"
	"github.com/TagleD/coffee-app/internal/tui/icons"
	"github.com/TagleD/coffee-app/internal/tui/styles"
	"github.com/TagleD/coffee-app/internal/tui/widgets"
)

// AddMsg asks the basket owner to add a product
type AddMsg struct {
	Product   client.Product
	Quantity  int
	WithBeans bool
}

// Shop is the product browsing screen
type Shop struct {
	products []client.Product
	tags     []client.Tag

	filtered  []client.Product
	tagCursor int // 0 means all tags
	cursor    int
	qty       int
	withBeans bool

	// Loyalty context for the affordability hint
	spendable int64
	committed int64

	notice string
	width  int
	height int
}

// New creates the shop screen from a loaded catalog
func New(products []client.Product, tags []client.Tag) *Shop {
	s := &Shop{
		products: products,
		tags:     tags,
		qty:      1,
	}
	s.applyFilter()
	return s
}

// SetCatalog replaces the product list after a refresh
func (s *Shop) SetCatalog(products []client.Product, tags []client.Tag) {
	s.products = products
	s.tags = tags
	s.applyFilter()
}

// SetBeans updates the loyalty context used for the affordability hint.
// committed is the bean total already sitting in the basket.
func (s *Shop) SetBeans(spendable, committed int64) {
	s.spendable = spendable
	s.committed = committed
}

// SetNotice shows a one-line message under the product list
func (s *Shop) SetNotice(msg string) {
	s.notice = msg
}

// SetSize updates the screen dimensions
func (s *Shop) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Selected returns the product under the cursor, or nil for an empty list
func (s *Shop) Selected() *client.Product {
	if s.cursor < 0 || s.cursor >= len(s.filtered) {
		return nil
	}
	return &s.filtered[s.cursor]
}

// applyFilter rebuilds the visible product list for the active tag.
// A catalog refresh can shrink the tag list, so the tag cursor is
// clamped before indexing.
func (s *Shop) applyFilter() {
	if s.tagCursor > len(s.tags) {
		s.tagCursor = len(s.tags)
	}
	if s.tagCursor == 0 {
		s.filtered = s.products
	} else {
		tagID := s.tags[s.tagCursor-1].ID
		s.filtered = nil
		for _, p := range s.products {
			for _, t := range p.Tags {
				if t.ID == tagID {
					s.filtered = append(s.filtered, p)
					break
				}
			}
		}
	}
	if s.cursor >= len(s.filtered) {
		s.cursor = len(s.filtered) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// Init implements tea.Model
func (s *Shop) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s *Shop) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	s.notice = ""

	switch key.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.filtered)-1 {
			s.cursor++
		}
	case "left", "h":
		if s.tagCursor > 0 {
			s.tagCursor--
			s.applyFilter()
		}
	case "right", "l":
		if s.tagCursor < len(s.tags) {
			s.tagCursor++
			s.applyFilter()
		}
	case "+", "=":
		s.qty++
	case "-":
		if s.qty > 1 {
			s.qty--
		}
	case "m":
		s.withBeans = !s.withBeans
	case "enter":
		if p := s.Selected(); p != nil {
			add := AddMsg{Product: *p, Quantity: s.qty, WithBeans: s.withBeans}
			s.qty = 1
			return s, func() tea.Msg { return add }
		}
	}

	return s, nil
}

// View implements tea.Model
func (s *Shop) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Coffee.String() + " Menu"))
	sb.WriteString("\n")
	sb.WriteString(s.renderTagBar())
	sb.WriteString("\n\n")

	if len(s.filtered) == 0 {
		sb.WriteString(styles.Subtitle.Render("No products for this tag"))
		return sb.String()
	}

	for i, p := range s.filtered {
		line := fmt.Sprintf("%s %8s  %s",
			pad(truncate(p.Name, 24), 24),
			p.Price.StringFixed(0)+" ₸",
			widgets.BeanAmount(p.BeanPrice),
		)
		if i == s.cursor {
			sb.WriteString(styles.SelectedRow.Render("> " + line))
		} else {
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(s.renderOrderLine())

	if s.notice != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.StatusWarning.Render(s.notice))
	}

	return sb.String()
}

// renderTagBar renders the tag filter with the active tag highlighted
func (s *Shop) renderTagBar() string {
	labels := []string{"All"}
	for _, t := range s.tags {
		labels = append(labels, t.Name)
	}

	var parts []string
	for i, label := range labels {
		if i == s.tagCursor {
			parts = append(parts, styles.SelectedRow.Render("["+label+"]"))
		} else {
			parts = append(parts, styles.Subtitle.Render(" "+label+" "))
		}
	}
	return icons.Tag.String() + " " + strings.Join(parts, " ")
}

// renderOrderLine renders quantity, payment mode, and affordability hint
func (s *Shop) renderOrderLine() string {
	qtyPart := fmt.Sprintf("Qty: %s", styles.ValueStyle.Render(fmt.Sprintf("%d", s.qty)))
	modePart := widgets.PaymentBadge(s.withBeans)

	line := qtyPart + "  " + modePart
	if s.withBeans {
		if p := s.Selected(); p != nil {
			needed := p.BeanPrice * int64(s.qty)
			affordable := s.spendable-s.committed >= needed
			line += "  " + widgets.AffordBadge(affordable)
		}
	}
	return lipgloss.NewStyle().MarginTop(1).Render(line)
}

// truncate shortens s to at most n display cells without splitting runes
func truncate(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > n {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

// pad right-pads s with spaces to n display cells
func pad(s string, n int) string {
	if w := lipgloss.Width(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}
