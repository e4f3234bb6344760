package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

const (
	Essential     Subtype = "essential"
	Discretionary Subtype = "discretionary"
	Savings       Subtype = "savings"
	Other         Subtype = "other"
)

type (
	TxType  string
	Subtype string

	// Date wraps time.Time with lenient JSON decoding. The data store holds
	// dates as ISO strings in several shapes; anything unparseable decodes to
	// the zero value instead of failing the whole payload.
	Date struct {
		time.Time
	}

	Transaction struct {
		ID            string          `json:"id"`
		UserID        string          `json:"userId"`
		Title         string          `json:"title"`
		Amount        decimal.Decimal `json:"amount"`
		Type          TxType          `json:"type"`
		Category      string          `json:"category"`
		Date          Date            `json:"date"`
		PaymentMethod string          `json:"paymentMethod,omitempty"`
		Status        string          `json:"status,omitempty"`
		Notes         string          `json:"notes,omitempty"`
		Tags          []string        `json:"tags,omitempty"`
	}

	Category struct {
		ID                string          `json:"id"`
		UserID            string          `json:"userId"`
		Name              string          `json:"name"`
		Type              TxType          `json:"type"`
		Subtype           Subtype         `json:"subtype,omitempty"`
		Color             string          `json:"color,omitempty"`
		Icon              string          `json:"icon,omitempty"`
		TransactionsCount int             `json:"transactions_count"`
		TotalAmount       decimal.Decimal `json:"totalAmount"`
		LastUsed          Date            `json:"lastUsed,omitempty"`
		MonthlyAverage    decimal.Decimal `json:"monthlyAverage,omitempty"`
		Order             int             `json:"order,omitempty"`
	}

	Budget struct {
		ID          string          `json:"id"`
		UserID      string          `json:"userId"`
		Name        string          `json:"name"`
		TotalAmount decimal.Decimal `json:"totalAmount"`
		StartDate   Date            `json:"startDate"`
		EndDate     Date            `json:"endDate"`
		Description string          `json:"description,omitempty"`
		Recurring   bool            `json:"recurring,omitempty"`
	}

	// BudgetCategory is a child of Budget. Budget is the allocated amount;
	// actual spend is always recomputed from transactions, never stored.
	BudgetCategory struct {
		ID         string          `json:"id"`
		BudgetID   string          `json:"budgetId"`
		CategoryID string          `json:"categoryId"`
		Name       string          `json:"name"`
		Budget     decimal.Decimal `json:"budget"`
		Type       TxType          `json:"type,omitempty"`
		Icon       string          `json:"icon,omitempty"`
	}

	SavingsGoal struct {
		ID        string          `json:"id"`
		UserID    string          `json:"userId"`
		Name      string          `json:"name"`
		Target    decimal.Decimal `json:"target"`
		Saved     decimal.Decimal `json:"saved"`
		Monthly   decimal.Decimal `json:"monthly,omitempty"`
		StartDate Date            `json:"startDate,omitempty"`
		Deadline  Date            `json:"deadline,omitempty"`
	}

	User struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Email  string `json:"email"`
		Avatar string `json:"avatar,omitempty"`
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyTitle    = errors.New("empty title")
	ErrEmptyName     = errors.New("empty name")
	ErrEmptyUserID   = errors.New("empty user id")
	ErrInvalidRange  = errors.New("end date before start date")
)

// dateFormats are tried in order when decoding a wire date.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO date or datetime string. Unparseable input yields
// the zero Date; aggregation treats zero dates as "matches no window".
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t}
		}
	}
	return Date{}
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Non-string date (null, number): degrade to zero.
		d.Time = time.Time{}
		return nil
	}
	d.Time = ParseDate(s).Time
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(d.Format("2006-01-02"))
}

// InMonth reports whether the date falls inside the given calendar month.
func (d Date) InMonth(year int, month time.Month) bool {
	if d.IsZero() {
		return false
	}
	return d.Year() == year && d.Month() == month
}

func (t TxType) Valid() bool {
	return t == Income || t == Expense
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return ErrEmptyUserID
	}
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if len(t.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return ErrEmptyUserID
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.UserID) == "" {
		return ErrEmptyUserID
	}
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	if b.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if b.StartDate.IsZero() || b.EndDate.IsZero() {
		return ErrInvalidDate
	}
	if b.EndDate.Before(b.StartDate.Time) {
		return ErrInvalidRange
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if strings.TrimSpace(g.UserID) == "" {
		return ErrEmptyUserID
	}
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if g.Target.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if g.Saved.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}
