package settlement

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"marketsim/internal/derivatives"
	"marketsim/internal/market"
	"marketsim/internal/pricing"
)

// CashEvent is the cash flow owed to one holder of a settled contract.
type CashEvent struct {
	UID        int             `json:"uid"`
	ContractID string          `json:"contract_id"`
	Underlying string          `json:"underlying"`
	Kind       pricing.Kind    `json:"kind"`
	Units      int             `json:"units"`
	Payoff     float64         `json:"payoff"`
	Amount     decimal.Decimal `json:"amount"`
}

// SettleExpired resolves every contract whose expiry is at or before
// today. Each expired contract is evaluated against the current price of
// its underlying, one CashEvent is emitted per holder (payoff times units
// held), and the contract is removed from the book unconditionally, so a
// second call on the same date pays nothing. settled reports the number
// of contracts actually removed, never a pre-scan estimate.
//
// A contract whose underlying is missing from prices aborts the scan with
// market.ErrUnknownAsset; contracts already evaluated stay removed (and
// counted), the rest stay live for a retry.
func SettleExpired(book *derivatives.Book, today time.Time, prices map[string]float64) (events []CashEvent, settled int, err error) {
	for _, c := range book.Expired(today) {
		price, ok := prices[c.Underlying]
		if !ok {
			return events, settled, fmt.Errorf("%w: %s", market.ErrUnknownAsset, c.Underlying)
		}

		payoff := c.Payoff(price)
		for _, h := range book.Holdings(c.ID) {
			amount := decimal.NewFromFloat(payoff).Mul(decimal.NewFromInt(int64(h.Units)))
			events = append(events, CashEvent{
				UID:        h.UID,
				ContractID: c.ID,
				Underlying: c.Underlying,
				Kind:       c.Kind,
				Units:      h.Units,
				Payoff:     payoff,
				Amount:     amount,
			})
		}
		book.Remove(c.ID)
		settled++
	}
	return events, settled, nil
}
