// ABOUTME: Inline badge widgets for payment modes and loyalty amounts
// ABOUTME: Provides colored badges used by basket, checkout, and order screens

package widgets

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/TagleD/coffee-app/internal/tui/icons"
)

// BadgeKind selects the badge color treatment
type BadgeKind int

const (
	BadgeMoney BadgeKind = iota
	BadgeBeans
	BadgeReward
	BadgeError
	BadgeNeutral
)

// Badge colors
var (
	badgeMoneyBg   = lipgloss.Color("#10B981")
	badgeMoneyFg   = lipgloss.Color("#FFFFFF")
	badgeBeansBg   = lipgloss.Color("#D4A373")
	badgeBeansFg   = lipgloss.Color("#000000")
	badgeRewardBg  = lipgloss.Color("#F59E0B")
	badgeRewardFg  = lipgloss.Color("#000000")
	badgeErrorBg   = lipgloss.Color("#EF4444")
	badgeErrorFg   = lipgloss.Color("#FFFFFF")
	badgeNeutralBg = lipgloss.Color("#6B7280")
	badgeNeutralFg = lipgloss.Color("#FFFFFF")
)

// Badge renders a colored inline badge
func Badge(text string, kind BadgeKind) string {
	var bg, fg lipgloss.Color

	switch kind {
	case BadgeMoney:
		bg, fg = badgeMoneyBg, badgeMoneyFg
	case BadgeBeans:
		bg, fg = badgeBeansBg, badgeBeansFg
	case BadgeReward:
		bg, fg = badgeRewardBg, badgeRewardFg
	case BadgeError:
		bg, fg = badgeErrorBg, badgeErrorFg
	default:
		bg, fg = badgeNeutralBg, badgeNeutralFg
	}

	style := lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true)

	return style.Render(text)
}

// PaymentBadge renders the payment mode of a basket line
func PaymentBadge(paidWithBeans bool) string {
	if paidWithBeans {
		return Badge("BEANS", BadgeBeans)
	}
	return Badge("CARD", BadgeMoney)
}

// BeanAmount renders a bean count with the bean icon
func BeanAmount(beans int64) string {
	style := lipgloss.NewStyle().Foreground(badgeBeansBg).Bold(true)
	return style.Render(fmt.Sprintf("%s %d", icons.Bean.String(), beans))
}

// RewardBadge renders a loyalty reward amount (spin or quiz winnings)
func RewardBadge(beans int64) string {
	return Badge(fmt.Sprintf("+%d beans", beans), BadgeReward)
}

// AffordBadge renders whether a bean purchase fits the spendable balance
func AffordBadge(affordable bool) string {
	if affordable {
		return Badge("OK", BadgeMoney)
	}
	return Badge("NOT ENOUGH BEANS", BadgeError)
}
