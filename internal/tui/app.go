// ABOUTME: Root bubbletea model for the coffee storefront TUI
// ABOUTME: Owns the session, basket, and catalog cache and routes input to screens

package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/TagleD/coffee-app/internal/basket"
	"github.com/TagleD/coffee-app/internal/cache"
	"github.com/TagleD/coffee-app/internal/client"
	"github.com/TagleD/coffee-app/internal/config"
	"github.com/TagleD/coffee-app/internal/session"
	"github.com/TagleD/coffee-app/internal/tui/basketview"
	"github.com/TagleD/coffee-app/internal/tui/checkout"
	"github.com/TagleD/coffee-app/internal/tui/icons"
	"github.com/TagleD/coffee-app/internal/tui/login"
	"github.com/TagleD/coffee-app/internal/tui/orders"
	"github.com/TagleD/coffee-app/internal/tui/profileview"
	"github.com/TagleD/coffee-app/internal/tui/quiz"
	"github.com/TagleD/coffee-app/internal/tui/shop"
	"github.com/TagleD/coffee-app/internal/tui/spin"
	"github.com/TagleD/coffee-app/internal/tui/styles"
	"github.com/TagleD/coffee-app/internal/tui/widgets"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenShop
	ScreenBasket
	ScreenCheckout
	ScreenProfile
	ScreenOrders
	ScreenSpin
	ScreenQuiz
)

// Layout constants
const (
	minTerminalWidth = 60
	catalogCacheKey  = "catalog"
)

// bootstrapDoneMsg is sent when the startup session check finishes
type bootstrapDoneMsg struct {
	state session.State
	err   error
}

// authDoneMsg is sent when a login or registration attempt finishes
type authDoneMsg struct {
	err error
}

// catalogMsg is sent when products and tags are loaded
type catalogMsg struct {
	products []client.Product
	tags     []client.Tag
	fresh    bool
	err      error
}

// profileMsg is sent when a profile refresh finishes
type profileMsg struct {
	err error
}

// orderPlacedMsg is sent when order creation completes
type orderPlacedMsg struct {
	result *client.OrderResult
	err    error
}

// historyMsg is sent when the order history is loaded
type historyMsg struct {
	orders []client.Order
	err    error
}

// spinMsg is sent when the daily spin completes
type spinMsg struct {
	result *client.SpinResult
	err    error
}

// quizQuestionsMsg is sent when today's quiz is loaded
type quizQuestionsMsg struct {
	questions []client.QuizQuestion
	err       error
}

// quizResultMsg is sent when quiz answers are graded
type quizResultMsg struct {
	result *client.QuizResult
	err    error
}

// sessionExpiredMsg is sent once when the API rejects the session
type sessionExpiredMsg struct{}

// App is the root model for the TUI
type App struct {
	sess    *session.Manager
	bsk     *basket.Basket
	catalog *cache.Cache
	screen  Screen
	width   int
	height  int
	err     error
	notice  string

	// Child models
	loginScreen    *login.Login
	shopScreen     *shop.Shop
	basketScreen   *basketview.BasketView
	checkoutScreen *checkout.Checkout
	profileScreen  *profileview.ProfileView
	ordersScreen   *orders.Orders
	spinScreen     *spin.Spin
	quizScreen     *quiz.Quiz
}

// New creates a new TUI application
func New(sess *session.Manager, cfg *config.Config) *App {
	return &App{
		sess:          sess,
		bsk:           basket.New(),
		catalog:       cache.New(cfg.CatalogTTL),
		screen:        ScreenLogin,
		loginScreen:   login.New(),
		spinScreen:    spin.New(),
		profileScreen: profileview.New(nil),
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loginScreen.Init(), a.bootstrap())
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.propagateSize()
		if a.screen == ScreenLogin || a.screen == ScreenCheckout {
			return a.forwardToScreen(msg)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		a.notice = ""

		// Form screens own the keyboard
		if a.screen == ScreenLogin || a.screen == ScreenCheckout {
			return a.forwardToScreen(msg)
		}

		if model, cmd, handled := a.handleGlobalKey(msg); handled {
			return model, cmd
		}
		return a.forwardToScreen(msg)

	case bootstrapDoneMsg:
		return a.handleBootstrapDone(msg)

	case login.SubmitMsg:
		return a, a.authenticate(msg)

	case login.CancelledMsg:
		return a, tea.Quit

	case authDoneMsg:
		return a.handleAuthDone(msg)

	case catalogMsg:
		return a.handleCatalog(msg)

	case profileMsg:
		a.profileScreen.SetUser(a.sess.User())
		a.syncShopBeans()
		return a, nil

	case shop.AddMsg:
		return a.handleAdd(msg)

	case basketview.CheckoutMsg:
		a.checkoutScreen = checkout.New(a.bsk.Subtotal(), a.bsk.BeansSubtotal())
		a.screen = ScreenCheckout
		return a, a.checkoutScreen.Init()

	case basketview.RemoveMsg:
		a.bsk.Remove(msg.ProductID)
		a.syncShopBeans()
		return a, nil

	case basketview.ClearMsg:
		a.bsk.Clear()
		a.syncShopBeans()
		return a, nil

	case checkout.SubmitMsg:
		return a, a.placeOrder()

	case checkout.CancelledMsg:
		a.checkoutScreen = nil
		a.screen = ScreenBasket
		return a, nil

	case orderPlacedMsg:
		return a.handleOrderPlaced(msg)

	case historyMsg:
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.ordersScreen = orders.New(msg.orders)
		a.ordersScreen.SetSize(a.contentWidth(), a.contentHeight())
		return a, nil

	case spin.RequestMsg:
		return a, a.dailySpin()

	case spinMsg:
		if msg.err != nil {
			a.spinScreen.SetError(errorDetail(msg.err))
			return a, nil
		}
		a.spinScreen.SetResult(msg.result.BeansWon)
		return a, a.refreshProfile()

	case quizQuestionsMsg:
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.quizScreen = quiz.New(msg.questions)
		a.quizScreen.SetSize(a.contentWidth(), a.contentHeight())
		return a, nil

	case quiz.SubmitMsg:
		return a, a.submitQuiz(msg.Answers)

	case quizResultMsg:
		if msg.err != nil {
			a.quizScreen.SetError(errorDetail(msg.err))
			return a, nil
		}
		a.quizScreen.SetResult(msg.result.Reward)
		return a, a.refreshProfile()

	case sessionExpiredMsg:
		return a.handleSessionExpired()

	default:
		// huh forms need every message while active
		if a.screen == ScreenLogin || a.screen == ScreenCheckout {
			return a.forwardToScreen(msg)
		}
	}

	return a, nil
}

// handleGlobalKey routes navigation keys available on every list screen
func (a *App) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "q":
		return a, tea.Quit, true
	case "s":
		a.screen = ScreenShop
		return a, a.loadCatalog(), true
	case "b":
		a.screen = ScreenBasket
		return a, nil, true
	case "p":
		a.screen = ScreenProfile
		return a, a.refreshProfile(), true
	case "o":
		a.screen = ScreenOrders
		return a, a.loadHistory(), true
	case "w":
		a.screen = ScreenSpin
		return a, nil, true
	case "z":
		a.screen = ScreenQuiz
		if a.quizScreen == nil {
			return a, a.loadQuiz(), true
		}
		return a, nil, true
	case "L":
		return a.logout()
	}
	return a, nil, false
}

// forwardToScreen passes a message to the active child model
func (a *App) forwardToScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch a.screen {
	case ScreenLogin:
		if a.loginScreen == nil {
			return a, nil
		}
		model, cmd := a.loginScreen.Update(msg)
		a.loginScreen = model.(*login.Login)
		return a, cmd
	case ScreenShop:
		if a.shopScreen == nil {
			return a, nil
		}
		model, cmd := a.shopScreen.Update(msg)
		a.shopScreen = model.(*shop.Shop)
		return a, cmd
	case ScreenBasket:
		if a.basketScreen == nil {
			return a, nil
		}
		model, cmd := a.basketScreen.Update(msg)
		a.basketScreen = model.(*basketview.BasketView)
		return a, cmd
	case ScreenCheckout:
		if a.checkoutScreen == nil {
			return a, nil
		}
		model, cmd := a.checkoutScreen.Update(msg)
		a.checkoutScreen = model.(*checkout.Checkout)
		return a, cmd
	case ScreenOrders:
		if a.ordersScreen == nil {
			return a, nil
		}
		model, cmd := a.ordersScreen.Update(msg)
		a.ordersScreen = model.(*orders.Orders)
		return a, cmd
	case ScreenSpin:
		model, cmd := a.spinScreen.Update(msg)
		a.spinScreen = model.(*spin.Spin)
		return a, cmd
	case ScreenQuiz:
		if a.quizScreen == nil {
			return a, nil
		}
		model, cmd := a.quizScreen.Update(msg)
		a.quizScreen = model.(*quiz.Quiz)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleBootstrapDone(msg bootstrapDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		slog.Warn("session bootstrap failed", "error", msg.err)
		a.loginScreen.SetError("Could not restore session: " + errorDetail(msg.err))
		return a, a.loginScreen.Init()
	}
	if msg.state == session.StateAuthenticated {
		a.screen = ScreenShop
		a.profileScreen.SetUser(a.sess.User())
		return a, a.loadCatalog()
	}
	return a, nil
}

func (a *App) handleAuthDone(msg authDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.loginScreen.SetError(errorDetail(msg.err))
		return a, a.loginScreen.Init()
	}
	a.screen = ScreenShop
	a.profileScreen.SetUser(a.sess.User())
	return a, a.loadCatalog()
}

func (a *App) handleCatalog(msg catalogMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.err = msg.err
		return a, nil
	}
	a.err = nil
	if msg.fresh {
		a.catalog.Set(catalogCacheKey, msg)
	}

	if a.shopScreen == nil {
		a.shopScreen = shop.New(msg.products, msg.tags)
	} else {
		a.shopScreen.SetCatalog(msg.products, msg.tags)
	}
	a.shopScreen.SetSize(a.contentWidth(), a.contentHeight())
	a.syncShopBeans()

	if a.basketScreen == nil {
		a.basketScreen = basketview.New(a.bsk)
	}
	return a, nil
}

func (a *App) handleAdd(msg shop.AddMsg) (tea.Model, tea.Cmd) {
	var err error
	if msg.WithBeans {
		var spendable int64
		if u := a.sess.User(); u != nil {
			spendable = u.Beans
		}
		err = a.bsk.AddWithBeans(msg.Product, msg.Quantity, spendable)
	} else {
		err = a.bsk.Add(msg.Product, msg.Quantity)
	}

	if err != nil {
		a.shopScreen.SetNotice(err.Error())
		return a, nil
	}

	a.shopScreen.SetNotice(fmt.Sprintf("Added %s x%d", msg.Product.Name, msg.Quantity))
	a.syncShopBeans()
	return a, nil
}

func (a *App) handleOrderPlaced(msg orderPlacedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.err = msg.err
		a.screen = ScreenBasket
		a.checkoutScreen = nil
		return a, nil
	}

	a.bsk.Clear()
	a.checkoutScreen = nil
	a.notice = fmt.Sprintf("Order #%d placed, earned %d beans", msg.result.OrderID, msg.result.BeansEarned)
	a.screen = ScreenShop
	a.syncShopBeans()
	return a, a.refreshProfile()
}

func (a *App) handleSessionExpired() (tea.Model, tea.Cmd) {
	a.screen = ScreenLogin
	a.loginScreen = login.New()
	a.loginScreen.SetError("Session expired, please sign in again")
	a.quizScreen = nil
	a.ordersScreen = nil
	return a, a.loginScreen.Init()
}

func (a *App) logout() (tea.Model, tea.Cmd, bool) {
	if err := a.sess.Logout(); err != nil {
		a.err = err
		return a, nil, true
	}
	a.bsk.Clear()
	a.screen = ScreenLogin
	a.loginScreen = login.New()
	a.quizScreen = nil
	a.ordersScreen = nil
	return a, a.loginScreen.Init(), true
}

// syncShopBeans pushes the spendable/committed bean totals to the shop hint
func (a *App) syncShopBeans() {
	if a.shopScreen == nil {
		return
	}
	var spendable int64
	if u := a.sess.User(); u != nil {
		spendable = u.Beans
	}
	a.shopScreen.SetBeans(spendable, a.bsk.BeansSubtotal())
}

func (a *App) propagateSize() {
	w, h := a.contentWidth(), a.contentHeight()
	if a.shopScreen != nil {
		a.shopScreen.SetSize(w, h)
	}
	if a.basketScreen != nil {
		a.basketScreen.SetSize(w, h)
	}
	if a.ordersScreen != nil {
		a.ordersScreen.SetSize(w, h)
	}
	if a.quizScreen != nil {
		a.quizScreen.SetSize(w, h)
	}
	a.spinScreen.SetSize(w, h)
	a.profileScreen.SetSize(w, h)
	if a.loginScreen != nil {
		a.loginScreen.SetWidth(w)
	}
	if a.checkoutScreen != nil {
		a.checkoutScreen.SetWidth(w)
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLogin:
		content = a.loginScreen.View()
	case ScreenShop:
		content = a.viewShop()
	case ScreenBasket:
		content = a.viewBasket()
	case ScreenCheckout:
		if a.checkoutScreen != nil {
			content = a.checkoutScreen.View()
		}
	case ScreenProfile:
		content = a.profileScreen.View()
	case ScreenOrders:
		content = a.viewOrders()
	case ScreenSpin:
		content = a.spinScreen.View()
	case ScreenQuiz:
		content = a.viewQuiz()
	}

	if a.err != nil {
		content = styles.StatusError.Render("Error: "+errorDetail(a.err)) + "\n\n" + content
	}

	return a.wrapWithFrame(content)
}

func (a *App) viewShop() string {
	if a.shopScreen == nil {
		return styles.Subtitle.Render("Loading menu...")
	}
	out := a.shopScreen.View()
	if a.notice != "" {
		out = styles.StatusOK.Render(a.notice) + "\n\n" + out
	}
	return out
}

func (a *App) viewBasket() string {
	if a.basketScreen == nil {
		a.basketScreen = basketview.New(a.bsk)
	}
	return a.basketScreen.View()
}

func (a *App) viewOrders() string {
	if a.ordersScreen == nil {
		return styles.Subtitle.Render("Loading orders...")
	}
	return a.ordersScreen.View()
}

func (a *App) viewQuiz() string {
	if a.quizScreen == nil {
		return styles.Subtitle.Render("Loading quiz...")
	}
	return a.quizScreen.View()
}

// renderHeader creates the header bar with branding and loyalty balance
func (a *App) renderHeader() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)

	leftText := fmt.Sprintf(" %s %s", icons.Coffee.String(), titleStyle.Render("CoffeeBeam"))

	rightText := ""
	if u := a.sess.User(); u != nil && a.screen != ScreenLogin {
		rightText = widgets.BeanAmount(u.Beans) + " "
	}

	leftWidth := lipgloss.Width(leftText)
	rightWidth := lipgloss.Width(rightText)
	fillWidth := width - 4 - leftWidth - rightWidth
	if fillWidth < 0 {
		fillWidth = 0
	}

	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"
	return borderStyle.Render(header)
}

// renderFooter creates the footer with keyboard shortcuts
func (a *App) renderFooter() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)

	var shortcuts []string
	switch a.screen {
	case ScreenLogin:
		shortcuts = []string{"↑↓ Navigate", "Enter Submit", "Esc Quit"}
	case ScreenShop:
		shortcuts = []string{"↑↓ Products", "←→ Tags", "+- Qty", "m Mode", "Enter Add", "b Basket", "q Quit"}
	case ScreenBasket:
		shortcuts = []string{"x Remove", "c Clear", "Enter Checkout", "s Shop", "q Quit"}
	case ScreenCheckout:
		shortcuts = []string{"Enter Next", "Esc Back"}
	case ScreenProfile:
		shortcuts = []string{"s Shop", "o Orders", "w Spin", "z Quiz", "L Logout", "q Quit"}
	case ScreenOrders:
		shortcuts = []string{"↑↓ Orders", "s Shop", "q Quit"}
	case ScreenSpin:
		shortcuts = []string{"Enter Spin", "s Shop", "q Quit"}
	case ScreenQuiz:
		shortcuts = []string{"↑↓ Options", "Enter Answer", "s Shop", "q Quit"}
	}

	var styledShortcuts []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styledShortcuts = append(styledShortcuts, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styledShortcuts = append(styledShortcuts, s)
		}
	}

	leftText := " " + strings.Join(styledShortcuts, "  ")
	leftPlainText := " " + strings.Join(shortcuts, "  ")

	fillWidth := width - 4 - lipgloss.Width(leftPlainText)
	if fillWidth < 0 {
		fillWidth = 0
	}

	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + "─╯"
	return borderStyle.Render(footer)
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder
	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())
	return sb.String()
}

func (a *App) contentWidth() int {
	if a.width < minTerminalWidth {
		return minTerminalWidth - 2
	}
	return a.width - 2
}

func (a *App) contentHeight() int {
	// Header, footer, and surrounding newlines
	return a.height - 4
}

// bootstrap restores the persisted session on startup
func (a *App) bootstrap() tea.Cmd {
	return func() tea.Msg {
		state, err := a.sess.Bootstrap(context.Background())
		return bootstrapDoneMsg{state: state, err: err}
	}
}

// authenticate performs login or registration with the entered phone
func (a *App) authenticate(msg login.SubmitMsg) tea.Cmd {
	return func() tea.Msg {
		var err error
		if msg.Mode == login.ModeRegister {
			err = a.sess.Register(context.Background(), msg.Phone)
		} else {
			err = a.sess.Login(context.Background(), msg.Phone)
		}
		return authDoneMsg{err: err}
	}
}

// loadCatalog serves the cached catalog or fetches a fresh one
func (a *App) loadCatalog() tea.Cmd {
	if cached, ok := a.catalog.Get(catalogCacheKey); ok {
		msg := cached.(catalogMsg)
		return func() tea.Msg {
			return catalogMsg{products: msg.products, tags: msg.tags}
		}
	}
	return func() tea.Msg {
		products, tags, err := a.sess.Client().Catalog(context.Background())
		return catalogMsg{products: products, tags: tags, fresh: true, err: err}
	}
}

// refreshProfile refetches the loyalty account
func (a *App) refreshProfile() tea.Cmd {
	return func() tea.Msg {
		return profileMsg{err: a.sess.FetchProfile(context.Background())}
	}
}

// placeOrder submits the basket contents
func (a *App) placeOrder() tea.Cmd {
	items := a.bsk.OrderItems()
	return func() tea.Msg {
		result, err := a.sess.Client().CreateOrder(context.Background(), items)
		return orderPlacedMsg{result: result, err: err}
	}
}

// loadHistory fetches past orders
func (a *App) loadHistory() tea.Cmd {
	return func() tea.Msg {
		history, err := a.sess.Client().OrderHistory(context.Background())
		return historyMsg{orders: history, err: err}
	}
}

// dailySpin calls the spin endpoint
func (a *App) dailySpin() tea.Cmd {
	return func() tea.Msg {
		result, err := a.sess.Client().DailySpin(context.Background())
		return spinMsg{result: result, err: err}
	}
}

// loadQuiz fetches today's questions
func (a *App) loadQuiz() tea.Cmd {
	return func() tea.Msg {
		questions, err := a.sess.Client().QuizQuestions(context.Background())
		return quizQuestionsMsg{questions: questions, err: err}
	}
}

// submitQuiz grades the collected answers
func (a *App) submitQuiz(answers map[int64]string) tea.Cmd {
	return func() tea.Msg {
		result, err := a.sess.Client().SubmitQuiz(context.Background(), answers)
		return quizResultMsg{result: result, err: err}
	}
}

// errorDetail prefers the API error detail over the raw error string
func errorDetail(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return err.Error()
}

// Run starts the TUI
func Run(sess *session.Manager, cfg *config.Config) error {
	app := New(sess, cfg)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)

	// Expired sessions land back on the login screen regardless of
	// which request tripped the rejection
	sess.SetOnSessionExpired(func() {
		p.Send(sessionExpiredMsg{})
	})

	_, err := p.Run()
	return err
}
