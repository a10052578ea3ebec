package derivatives

import (
	"time"

	"github.com/google/uuid"

	"marketsim/internal/pricing"
)

// Contract is a European option written by the bank. Every field is fixed
// at issuance; settlement is the only thing that ever retires one.
type Contract struct {
	ID         string       `json:"id"`
	Kind       pricing.Kind `json:"kind"`
	Underlying string       `json:"underlying"`
	Strike     float64      `json:"strike"`
	Expiry     time.Time    `json:"expiry"`
	Premium    float64      `json:"premium"`
	IssuedAt   time.Time    `json:"issued_at"`
}

func NewContract(kind pricing.Kind, underlying string, strike float64, expiry time.Time, premium float64, issued time.Time) Contract {
	return Contract{
		ID:         uuid.New().String(),
		Kind:       kind,
		Underlying: underlying,
		Strike:     strike,
		Expiry:     expiry,
		Premium:    premium,
		IssuedAt:   issued,
	}
}

// Payoff is the per-unit exercise value at the given underlying price.
func (c Contract) Payoff(price float64) float64 {
	return c.Kind.Payoff(c.Strike, price)
}

func (c Contract) Expired(asOf time.Time) bool {
	return !c.Expiry.After(asOf)
}
