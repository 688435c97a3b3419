// ABOUTME: Wire schemas for the CoffeeBeam API
// ABOUTME: Every external response shape is parsed into a typed record at the boundary

package client

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// TokenPair is returned by login/ and register/
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Tag is a product category label
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Product is a catalog entry. Price is the monetary unit price;
// BeanPrice is the loyalty-points unit price (0 means not redeemable).
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	BeanPrice   int64           `json:"bean_price"`
	Image       string          `json:"image"`
	Tags        []Tag           `json:"tags"`
}

// User is the profile record. NextLevelBeans is nil at the maximum level.
type User struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Avatar         string `json:"avatar"`
	Beans          int64  `json:"beans"`
	BeansTotal     int64  `json:"beans_total"`
	Level          int    `json:"level"`
	NextLevelBeans *int64 `json:"next_level_beans"`
}

// FullName joins the user's first and last name for display
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// OrderItem is one line of a create_order/ request. PricePerItem is the
// effective unit price actually charged (zero for bean-paid lines); the
// server serializes money as decimal strings, which decimal.Decimal
// round-trips exactly.
type OrderItem struct {
	ProductID    int64           `json:"product_id"`
	Quantity     int             `json:"quantity"`
	PricePerItem decimal.Decimal `json:"price_per_item"`
}

// OrderResult is the create_order/ response
type OrderResult struct {
	OrderID     int64 `json:"order_id"`
	BeansEarned int64 `json:"beans_earned"`
}

// HistoryItem is one line of a past order
type HistoryItem struct {
	Product      Product         `json:"product"`
	Quantity     int             `json:"quantity"`
	PricePerItem decimal.Decimal `json:"price_per_item"`
}

// Order is one past order from order_history/
type Order struct {
	ID          int64           `json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	BeansEarned int64           `json:"beans_earned"`
	Items       []HistoryItem   `json:"items"`
}

// SpinResult is the daily_spin/ response
type SpinResult struct {
	BeansWon int64 `json:"beans_won"`
}

// QuizQuestion is one entry of the daily_quiz/ payload. Options maps
// the answer letter (A-D) to its text.
type QuizQuestion struct {
	ID       int64             `json:"id"`
	Question string            `json:"question"`
	Options  map[string]string `json:"options"`
}

// QuizResult is the daily_quiz/ submission response
type QuizResult struct {
	Reward int64 `json:"reward"`
}

// APIError is a non-2xx response from the server
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server error: %s (status %d)", e.Detail, e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// IsAuthError reports whether err is a 401/403 API response
func IsAuthError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return false
}

// ErrInvalidPhone is returned for malformed phone numbers before any
// request is made.
var ErrInvalidPhone = errors.New("invalid phone number")

var phonePattern = regexp.MustCompile(`^\+?\d{10,15}$`)

// ValidatePhone checks the phone number shape used by login/register
func ValidatePhone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}

// Request bodies

type authRequest struct {
	Phone string `json:"phone"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

type profileUpdateRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type orderRequest struct {
	Items []OrderItem `json:"items"`
}

type quizSubmitRequest struct {
	Answers map[int64]string `json:"answers"`
}

// errorResponse tolerates both Django-style {"detail"} and
// {"error"} bodies.
type errorResponse struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}
