package pricing

import (
	"errors"
	"math"
)

var ErrInvalidInput = errors.New("pricing: invalid input")

// Kind is the closed set of option types the bank writes.
type Kind string

const (
	Call Kind = "call"
	Put  Kind = "put"
)

func (k Kind) Valid() bool {
	return k == Call || k == Put
}

// Payoff is the exercise value of one unit at expiration.
func (k Kind) Payoff(strike, price float64) float64 {
	if k == Put {
		return math.Max(0, strike-price)
	}
	return math.Max(0, price-strike)
}

// Price returns the Black-Scholes premium for a European option.
// years is time to expiration in years and must be strictly positive;
// sigma is annualized volatility and may be zero, in which case the
// deterministic discounted-intrinsic limit is returned.
func Price(spot, strike, years, sigma, rate float64, kind Kind) (float64, error) {
	if spot <= 0 || strike <= 0 || years <= 0 || sigma < 0 || !kind.Valid() {
		return 0, ErrInvalidInput
	}

	discStrike := strike * math.Exp(-rate*years)

	if sigma == 0 {
		if kind == Put {
			return math.Max(0, discStrike-spot), nil
		}
		return math.Max(0, spot-discStrike), nil
	}

	d1 := (math.Log(spot/strike) + (rate+0.5*sigma*sigma)*years) / (sigma * math.Sqrt(years))
	d2 := d1 - sigma*math.Sqrt(years)

	if kind == Put {
		return discStrike*normCDF(-d2) - spot*normCDF(-d1), nil
	}
	return spot*normCDF(d1) - discStrike*normCDF(d2), nil
}

// normCDF is the standard normal CDF, N(x) = 0.5*(1+erf(x/sqrt(2))).
func normCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}
