// Package format renders money, dates and transaction labels for a locale.
package format

import (
	"fmt"
	"strings"

	"github.com/boddenberg/financeiro-bfa-go/internal/domain"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// Formatter turns domain values into display strings.
type Formatter interface {
	Currency(v decimal.Decimal) string
	Date(d domain.Date) string
	TypeLabel(t domain.TransactionType) string
}

// Locale holds the conventions a LocaleFormatter applies.
type Locale struct {
	Tag            language.Tag
	CurrencySymbol string
	SymbolSpacing  string // between symbol and amount
	DecimalSep     string
	GroupSep       string
	DateLayout     string
	IncomeLabel    string
	ExpenseLabel   string
}

// PtBR mirrors Intl.NumberFormat("pt-BR", {currency: "BRL"}) and toLocaleDateString("pt-BR").
var PtBR = Locale{
	Tag:            language.BrazilianPortuguese,
	CurrencySymbol: "R$",
	SymbolSpacing:  "\u00a0",
	DecimalSep:     ",",
	GroupSep:       ".",
	DateLayout:     "02/01/2006",
	IncomeLabel:    "Receita",
	ExpenseLabel:   "Despesa",
}

// EnUS formats in US dollars; mostly useful to check that render logic is locale agnostic.
var EnUS = Locale{
	Tag:            language.AmericanEnglish,
	CurrencySymbol: "$",
	DecimalSep:     ".",
	GroupSep:       ",",
	DateLayout:     "01/02/2006",
	IncomeLabel:    "Income",
	ExpenseLabel:   "Expense",
}

var (
	supported = []Locale{PtBR, EnUS}
	matcher   = language.NewMatcher([]language.Tag{PtBR.Tag, EnUS.Tag})
)

// LocaleFormatter implements Formatter for a fixed Locale.
type LocaleFormatter struct {
	locale Locale
}

// New returns a formatter for the given locale.
func New(l Locale) *LocaleFormatter {
	return &LocaleFormatter{locale: l}
}

// ForTag picks the closest supported locale for a BCP 47 tag such as "pt-BR".
func ForTag(tag string) (*LocaleFormatter, error) {
	t, err := language.Parse(tag)
	if err != nil {
		return nil, fmt.Errorf("parsing locale %q: %w", tag, err)
	}
	_, idx, conf := matcher.Match(t)
	if conf == language.No {
		return nil, fmt.Errorf("unsupported locale %q", tag)
	}
	return New(supported[idx]), nil
}

// Locale returns the conventions in use.
func (f *LocaleFormatter) Locale() Locale {
	return f.locale
}

// Currency formats v with two decimals, grouped thousands and the currency symbol.
// Negative amounts carry the sign before the symbol: -R$ 1.200,25.
func (f *LocaleFormatter) Currency(v decimal.Decimal) string {
	v = v.Round(2)
	sign := ""
	if v.IsNegative() {
		sign = "-"
	}

	digits := v.Abs().StringFixed(2)
	intPart, fracPart, _ := strings.Cut(digits, ".")

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString(f.locale.CurrencySymbol)
	b.WriteString(f.locale.SymbolSpacing)
	b.WriteString(group(intPart, f.locale.GroupSep))
	b.WriteString(f.locale.DecimalSep)
	b.WriteString(fracPart)
	return b.String()
}

// Date formats a calendar date; unparsed dates are shown as received.
func (f *LocaleFormatter) Date(d domain.Date) string {
	if !d.Valid() {
		return d.String()
	}
	return d.Time().Format(f.locale.DateLayout)
}

// TypeLabel returns the income label for income entries and the expense label otherwise.
func (f *LocaleFormatter) TypeLabel(t domain.TransactionType) string {
	if t.IsIncome() {
		return f.locale.IncomeLabel
	}
	return f.locale.ExpenseLabel
}

func group(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	var b strings.Builder
	b.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		b.WriteString(sep)
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
