package market

import (
	"github.com/shopspring/decimal"
)

// Premium is an option price that may be missing.
//
// When the provider has no print for a contract the premium is unpriced. An
// unpriced premium still carries a zero Amount so profit and loss can be
// computed against it, but callers can tell it apart from a real price.
type Premium struct {
	Amount decimal.Decimal
	Priced bool
}

func Priced(d decimal.Decimal) Premium {
	return Premium{Amount: d, Priced: true}
}

func Unpriced() Premium {
	return Premium{Amount: decimal.Zero}
}

// ParsePremium reads the persisted form. Zero and empty both mean unpriced:
// options never print at zero.
func ParsePremium(s string) (Premium, error) {
	if s == "" {
		return Unpriced(), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Premium{}, err
	}
	if d.IsZero() {
		return Unpriced(), nil
	}
	return Priced(d), nil
}

// String is the persisted form; unpriced premiums are written as 0.
func (p Premium) String() string {
	if !p.Priced {
		return "0"
	}
	return p.Amount.String()
}
