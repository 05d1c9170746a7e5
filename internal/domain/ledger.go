package domain

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tags a transaction as income or expense.
// The wire values are the Portuguese names used by the ledger API.
type TransactionType string

const (
	TypeIncome  TransactionType = "receita"
	TypeExpense TransactionType = "despesa"
)

// IsIncome reports whether t is an income entry. Anything else is shown as expense.
func (t TransactionType) IsIncome() bool {
	return t == TypeIncome
}

// Transaction is a single dated financial movement as returned by the ledger API.
type Transaction struct {
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value"`
	Date        Date            `json:"date"`
}

// Summary holds the server-side aggregate of all transactions.
type Summary struct {
	TotalIncome  decimal.Decimal `json:"receitas"`
	TotalExpense decimal.Decimal `json:"despesas"`
	Balance      decimal.Decimal `json:"saldo"`
}

// EntryForm carries the raw values of the four entry form fields.
type EntryForm struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Value       string `json:"value"`
	Date        string `json:"date"`
}

// NewTransaction is the create payload built from an EntryForm.
// Value is invalid (sent as null) when the value field does not parse as a number.
type NewTransaction struct {
	Type        TransactionType
	Description string
	Value       decimal.NullDecimal
	Date        string
}

// NewTransactionFromForm builds the create payload. No validation happens here:
// the server is the only authority on what a valid transaction is.
func NewTransactionFromForm(f EntryForm) *NewTransaction {
	tx := &NewTransaction{
		Type:        TransactionType(f.Type),
		Description: f.Description,
		Date:        f.Date,
	}
	if v, err := decimal.NewFromString(strings.TrimSpace(f.Value)); err == nil {
		tx.Value = decimal.NewNullDecimal(v)
	}
	return tx
}

// MarshalJSON writes value as a bare JSON number (or null), never as a quoted string.
func (t NewTransaction) MarshalJSON() ([]byte, error) {
	value := json.RawMessage("null")
	if t.Value.Valid {
		value = json.RawMessage(t.Value.Decimal.String())
	}
	return json.Marshal(struct {
		Type        TransactionType `json:"type"`
		Description string          `json:"description"`
		Value       json.RawMessage `json:"value"`
		Date        string          `json:"date"`
	}{t.Type, t.Description, value, t.Date})
}

// TransactionRow is one rendered line of the transactions table.
type TransactionRow struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	TypeLabel   string `json:"type_label"`
	Value       string `json:"value"`
	Class       string `json:"class"`
}

// SummaryDisplay holds the three formatted summary regions.
type SummaryDisplay struct {
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Balance string `json:"balance"`
}

// SortByDateDesc orders transactions most recent first. Equal dates keep their
// input order; unparseable dates go after every parseable one.
func SortByDateDesc(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		a, b := txs[i].Date, txs[j].Date
		switch {
		case a.Valid() && b.Valid():
			return a.Time().After(b.Time())
		case a.Valid():
			return true
		default:
			return false
		}
	})
}

// ============================================================
// Date
// ============================================================

const isoDate = "2006-01-02"

var dateLayouts = []string{
	isoDate,
	time.RFC3339,
	"2006-01-02T15:04:05",
	http.TimeFormat,
	time.RFC1123Z,
	"02/01/2006",
}

// Date is a calendar date. It keeps the raw text when the value could not be parsed.
type Date struct {
	t   time.Time
	raw string
}

// NewDate returns the calendar date for year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses s in any of the accepted layouts. The returned Date is
// never an error: invalid input yields a Date with Valid() == false.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return NewDate(y, m, d)
		}
	}
	return Date{raw: s}
}

// Valid reports whether the date was parsed.
func (d Date) Valid() bool {
	return !d.t.IsZero()
}

// Time returns the date at midnight UTC.
func (d Date) Time() time.Time {
	return d.t
}

func (d Date) String() string {
	if !d.Valid() {
		return d.raw
	}
	return d.t.Format(isoDate)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*d = ParseDate(s)
	return nil
}
