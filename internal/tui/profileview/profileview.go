// ABOUTME: Profile screen showing loyalty balance and level progress
// ABOUTME: Renders the level bar against next_level_beans with a max-level state

package profileview

import (
	"fmt"
	"strings"

	"github.com/TagleD/coffee-app/internal/client"
	"github.com/TagleD/coffee-app/internal/tui/icons"
	"github.com/TagleD/coffee-app/internal/tui/styles"
	"github.com/TagleD/coffee-app/internal/tui/widgets"
)

// ProfileView renders the loyalty account
type ProfileView struct {
	user  *client.User
	width int
}

// New creates the profile screen
func New(user *client.User) *ProfileView {
	return &ProfileView{user: user}
}

// SetUser replaces the displayed account after a refresh
func (v *ProfileView) SetUser(user *client.User) {
	v.user = user
}

// SetSize updates the screen dimensions
func (v *ProfileView) SetSize(width, _ int) {
	v.width = width
}

// View renders the profile
func (v *ProfileView) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Profile.String() + " Profile"))
	sb.WriteString("\n")

	if v.user == nil {
		sb.WriteString(styles.Subtitle.Render("Loading profile..."))
		return sb.String()
	}

	u := v.user
	sb.WriteString(styles.ValueStyle.Render(u.FullName()))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Spendable beans:  %s\n", widgets.BeanAmount(u.Beans)))
	sb.WriteString(fmt.Sprintf("Lifetime beans:   %s\n", widgets.BeanAmount(u.BeansTotal)))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("%s Level %d\n", icons.Level.String(), u.Level))

	// next_level_beans is null at max level
	var goal int64
	if u.NextLevelBeans != nil {
		goal = *u.NextLevelBeans
	}
	sb.WriteString(widgets.LevelBarWithLabel(u.BeansTotal, goal, widgets.DefaultLevelBarConfig()))
	sb.WriteString("\n")

	return sb.String()
}
