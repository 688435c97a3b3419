// ABOUTME: Tests for the root TUI model
// ABOUTME: Verifies frame alignment, screen routing, and basket integration

package tui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/TagleD/coffee-app/internal/client"
	"github.com/TagleD/coffee-app/internal/config"
	"github.com/TagleD/coffee-app/internal/session"
	"github.com/TagleD/coffee-app/internal/tokens"
	"github.com/TagleD/coffee-app/internal/tui/shop"
)

func testApp(t *testing.T) *App {
	t.Helper()
	sess := session.NewManager("http://localhost:1/api", tokens.New(t.TempDir()))
	cfg := &config.Config{
		APIURL:     "http://localhost:1/api",
		CatalogTTL: 5 * time.Minute,
	}
	return New(sess, cfg)
}

// loadTestCatalog drives the app into the shop screen with a small menu
func loadTestCatalog(t *testing.T, a *App) {
	t.Helper()
	coffee := client.Tag{ID: 1, Name: "Coffee"}
	msg := catalogMsg{
		products: []client.Product{
			{ID: 1, Name: "Latte", Price: decimal.NewFromInt(1200), BeanPrice: 60, Tags: []client.Tag{coffee}},
		},
		tags: []client.Tag{coffee},
	}
	model, _ := a.Update(msg)
	*a = *model.(*App)
	a.screen = ScreenShop
}

func TestFrameAlignment(t *testing.T) {
	widths := []int{60, 80, 100, 120}

	for _, targetWidth := range widths {
		t.Run(fmt.Sprintf("width_%d", targetWidth), func(t *testing.T) {
			a := testApp(t)
			loadTestCatalog(t, a)

			model, _ := a.Update(tea.WindowSizeMsg{Width: targetWidth, Height: 30})
			a = model.(*App)

			view := a.View()
			lines := strings.Split(view, "\n")

			expectedWidth := targetWidth
			if expectedWidth < minTerminalWidth {
				expectedWidth = minTerminalWidth
			}

			headerFound, footerFound := false, false
			for _, line := range lines {
				if strings.HasPrefix(line, "╭") {
					headerFound = true
					if w := lipgloss.Width(line); w != expectedWidth {
						t.Errorf("header width at %d: expected %d, got %d", targetWidth, expectedWidth, w)
					}
				}
				if strings.HasPrefix(line, "╰") {
					footerFound = true
					if w := lipgloss.Width(line); w != expectedWidth {
						t.Errorf("footer width at %d: expected %d, got %d", targetWidth, expectedWidth, w)
					}
				}
			}

			if !headerFound {
				t.Error("header not found in view")
			}
			if !footerFound {
				t.Error("footer not found in view")
			}
		})
	}
}

func TestGlobalNavigation(t *testing.T) {
	tests := []struct {
		key    string
		screen Screen
	}{
		{"b", ScreenBasket},
		{"p", ScreenProfile},
		{"o", ScreenOrders},
		{"w", ScreenSpin},
		{"z", ScreenQuiz},
	}

	for _, tt := range tests {
		a := testApp(t)
		loadTestCatalog(t, a)

		model, _ := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(tt.key)})
		a = model.(*App)
		if a.screen != tt.screen {
			t.Errorf("key %q: expected screen %d, got %d", tt.key, tt.screen, a.screen)
		}
	}
}

func TestLoginScreenOwnsKeyboard(t *testing.T) {
	a := testApp(t)
	// "q" must reach the form, not quit the app, while signing in
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd != nil {
		if _, isQuit := cmd().(tea.QuitMsg); isQuit {
			t.Error("expected q to be forwarded to the login form, not quit")
		}
	}
}

func TestAddToBasketFromShop(t *testing.T) {
	a := testApp(t)
	loadTestCatalog(t, a)

	product := client.Product{ID: 1, Name: "Latte", Price: decimal.NewFromInt(1200), BeanPrice: 60}
	model, _ := a.Update(shop.AddMsg{Product: product, Quantity: 2})
	a = model.(*App)

	if a.bsk.ItemCount() != 2 {
		t.Errorf("expected 2 items in basket, got %d", a.bsk.ItemCount())
	}
	if got := a.bsk.Subtotal(); !got.Equal(decimal.NewFromInt(2400)) {
		t.Errorf("expected subtotal 2400, got %s", got)
	}
}

func TestBeanAddRejectedWithoutBalance(t *testing.T) {
	a := testApp(t)
	loadTestCatalog(t, a)

	// No profile loaded means zero spendable beans
	product := client.Product{ID: 1, Name: "Latte", Price: decimal.NewFromInt(1200), BeanPrice: 60}
	model, _ := a.Update(shop.AddMsg{Product: product, Quantity: 1, WithBeans: true})
	a = model.(*App)

	if a.bsk.ItemCount() != 0 {
		t.Errorf("expected rejected bean purchase, basket has %d items", a.bsk.ItemCount())
	}
}

func TestSessionExpiredReturnsToLogin(t *testing.T) {
	a := testApp(t)
	loadTestCatalog(t, a)

	model, _ := a.Update(sessionExpiredMsg{})
	a = model.(*App)

	if a.screen != ScreenLogin {
		t.Errorf("expected login screen after expiry, got %d", a.screen)
	}
}

func TestOrderPlacedClearsBasket(t *testing.T) {
	a := testApp(t)
	loadTestCatalog(t, a)

	product := client.Product{ID: 1, Name: "Latte", Price: decimal.NewFromInt(1200), BeanPrice: 60}
	a.bsk.Add(product, 1)

	model, _ := a.Update(orderPlacedMsg{result: &client.OrderResult{OrderID: 42, BeansEarned: 12}})
	a = model.(*App)

	if a.bsk.ItemCount() != 0 {
		t.Errorf("expected basket cleared after order, got %d items", a.bsk.ItemCount())
	}
	if a.screen != ScreenShop {
		t.Errorf("expected return to shop, got screen %d", a.screen)
	}
	if !strings.Contains(a.notice, "#42") {
		t.Errorf("expected order confirmation notice, got %q", a.notice)
	}
}

func TestOrderNoticeClearedOnNextKey(t *testing.T) {
	a := testApp(t)
	loadTestCatalog(t, a)

	model, _ := a.Update(orderPlacedMsg{result: &client.OrderResult{OrderID: 42, BeansEarned: 12}})
	a = model.(*App)
	if a.notice == "" {
		t.Fatal("expected a confirmation notice after the order")
	}

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyDown})
	a = model.(*App)
	if a.notice != "" {
		t.Errorf("expected notice cleared on next key press, got %q", a.notice)
	}
}

func TestCatalogCachedAfterFreshLoad(t *testing.T) {
	a := testApp(t)
	coffee := client.Tag{ID: 1, Name: "Coffee"}
	msg := catalogMsg{
		products: []client.Product{{ID: 1, Name: "Latte", Price: decimal.NewFromInt(1200)}},
		tags:     []client.Tag{coffee},
		fresh:    true,
	}
	model, _ := a.Update(msg)
	a = model.(*App)

	if _, ok := a.catalog.Get(catalogCacheKey); !ok {
		t.Error("expected fresh catalog to be cached")
	}
}
