package bank

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"marketsim/internal/derivatives"
	"marketsim/internal/pricing"
)

var (
	ErrInsufficientHistory = errors.New("bank: need at least two price observations")
	ErrInvalidExpiration   = errors.New("bank: expiration must be after today")
	ErrQuoteUnattainable   = errors.New("bank: strike search exhausted")
)

const (
	tradingDays  = 252
	daysPerYear  = 365.25
	maxSearch    = 10000
	bandPerRound = 0.001
)

// Quoter prices and issues option contracts against an asset's price
// history. It holds no shared state beyond the random source used for
// strike draws.
type Quoter struct {
	rate float64
	rng  *rand.Rand
}

func NewQuoter(riskFreeRate float64, rng *rand.Rand) *Quoter {
	return &Quoter{rate: riskFreeRate, rng: rng}
}

func (q *Quoter) Rate() float64 { return q.rate }

// Volatility estimates annualized volatility as the population standard
// deviation of daily log returns scaled by sqrt(252).
func Volatility(history []float64) (float64, error) {
	if len(history) < 2 {
		return 0, ErrInsufficientHistory
	}
	for _, p := range history {
		if p <= 0 {
			return 0, pricing.ErrInvalidInput
		}
	}

	returns := make([]float64, len(history)-1)
	mean := 0.0
	for i := 1; i < len(history); i++ {
		returns[i-1] = math.Log(history[i] / history[i-1])
		mean += returns[i-1]
	}
	mean /= float64(len(returns))

	var ss float64
	for _, r := range returns {
		d := r - mean
		ss += d * d
	}
	return math.Sqrt(ss/float64(len(returns))) * math.Sqrt(tradingDays), nil
}

// Issue finds a strike near the spot whose premium clears minPremium and
// returns the resulting contract. The search widens the strike band by
// 0.1% of spot per round and draws uniformly inside it; it gives up with
// ErrQuoteUnattainable after maxSearch rounds rather than looping forever
// on an unattainable minimum.
func (q *Quoter) Issue(kind pricing.Kind, underlying string, history []float64, expiry, today time.Time, minPremium float64) (derivatives.Contract, error) {
	if minPremium < 0 || !kind.Valid() {
		return derivatives.Contract{}, pricing.ErrInvalidInput
	}
	if !expiry.After(today) {
		return derivatives.Contract{}, ErrInvalidExpiration
	}

	vol, err := Volatility(history)
	if err != nil {
		return derivatives.Contract{}, err
	}

	spot := history[len(history)-1]
	years := expiry.Sub(today).Hours() / 24 / daysPerYear

	for i := 1; i <= maxSearch; i++ {
		band := bandPerRound * float64(i)
		strike := spot * (1 - band + 2*band*q.rng.Float64())
		if strike <= 0 {
			// wide bands can cross zero; a worthless draw, not an error
			continue
		}

		premium, err := pricing.Price(spot, strike, years, vol, q.rate, kind)
		if err != nil {
			return derivatives.Contract{}, err
		}
		if premium >= minPremium && premium > 0 {
			return derivatives.NewContract(kind, underlying, strike, expiry, premium, today), nil
		}
	}
	return derivatives.Contract{}, ErrQuoteUnattainable
}
