package domain

type Currency string

const (
	CurrencyRUB Currency = "RUB"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyKZT Currency = "KZT"
)

var currencyLabels = map[Currency]string{
	CurrencyRUB: "₽ Russian ruble",
	CurrencyUSD: "$ US dollar",
	CurrencyEUR: "€ Euro",
	CurrencyKZT: "₸ Kazakhstani tenge",
}

// Currencies lists the supported currencies in display order.
func Currencies() []Currency {
	return []Currency{CurrencyRUB, CurrencyUSD, CurrencyEUR, CurrencyKZT}
}

func (c Currency) Valid() bool {
	_, ok := currencyLabels[c]
	return ok
}

func (c Currency) Label() string {
	if label, ok := currencyLabels[c]; ok {
		return label
	}
	return string(c)
}
