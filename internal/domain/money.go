package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func ParseMoney(amount, isoCurrency string) (Money, error) {
	parsedAmount, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("amount[%s] is not valid: %w", amount, err)
	}

	parsedCurrency, err := currency.ParseISO(isoCurrency)
	if err != nil {
		return Money{}, fmt.Errorf("currency[%s] is not valid: %w", isoCurrency, err)
	}

	return Money{Amount: parsedAmount, Currency: parsedCurrency}, nil
}

func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + m.Currency.String()
}
