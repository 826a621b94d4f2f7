package alpaca

import (
	"cloud.google.com/go/civil"
	tradeapi "github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/shopspring/decimal"
)

func sdkContract(typ, strike string) tradeapi.OptionContract {
	return tradeapi.OptionContract{
		Symbol:           "SPY240607C00452000",
		UnderlyingSymbol: "SPY",
		Type:             tradeapi.OptionType(typ),
		StrikePrice:      decimal.RequireFromString(strike),
		ExpirationDate:   civil.Date{Year: 2024, Month: 6, Day: 7},
	}
}
