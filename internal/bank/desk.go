package bank

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"marketsim/internal/derivatives"
	"marketsim/internal/event"
	"marketsim/internal/monitoring"
	"marketsim/internal/pricing"
)

var (
	ErrUnknownContract = errors.New("bank: unknown contract")
	ErrNoHoldings      = errors.New("bank: caller holds no units of that contract")
)

// Account is the portfolio seam the desk moves cash and option units
// through.
type Account interface {
	Credit(amount decimal.Decimal)
	Debit(amount decimal.Decimal) error
	AddOption(contractID string, units int)
	ReleaseOption(contractID string, units int) int
}

// PriceSource supplies asset price histories for volatility estimation.
type PriceSource interface {
	History(assetID string) ([]float64, error)
	Latest(assetID string) (float64, error)
}

// Desk is the bank's issuance service: it quotes contracts through the
// Quoter, registers them in the book and settles the premium legs against
// the buyer and the bank's own vault.
type Desk struct {
	quoter *Quoter
	book   *derivatives.Book
	vault  Account
	prices PriceSource
	bus    *event.Bus
	log    *zap.Logger
}

func NewDesk(quoter *Quoter, book *derivatives.Book, vault Account, prices PriceSource, bus *event.Bus, log *zap.Logger) *Desk {
	if log == nil {
		log = zap.NewNop()
	}
	return &Desk{quoter: quoter, book: book, vault: vault, prices: prices, bus: bus, log: log}
}

func (d *Desk) Book() *derivatives.Book { return d.book }

// Quote prices a contract without issuing it.
func (d *Desk) Quote(kind pricing.Kind, assetID string, expiry, today time.Time, minPremium float64) (derivatives.Contract, error) {
	history, err := d.prices.History(assetID)
	if err != nil {
		return derivatives.Contract{}, err
	}
	return d.quoter.Issue(kind, assetID, history, expiry, today, minPremium)
}

// Sell issues a contract and sells units of it to the buyer. The buyer is
// debited premium*units, the vault is credited the same, and the contract
// enters the book with the bank as writer. units may be zero: the bank
// still writes the contract and carries the exposure until expiry.
func (d *Desk) Sell(buyer Account, buyerUID int, kind pricing.Kind, assetID string, expiry, today time.Time, minPremium float64, units int) (derivatives.Contract, error) {
	if units < 0 {
		return derivatives.Contract{}, pricing.ErrInvalidInput
	}

	history, err := d.prices.History(assetID)
	if err != nil {
		monitoring.QuotesFailed.Inc()
		return derivatives.Contract{}, err
	}

	c, err := d.quoter.Issue(kind, assetID, history, expiry, today, minPremium)
	if err != nil {
		monitoring.QuotesFailed.Inc()
		return derivatives.Contract{}, err
	}

	cost := decimal.NewFromFloat(c.Premium).Mul(decimal.NewFromInt(int64(units)))
	if units > 0 {
		if err := buyer.Debit(cost); err != nil {
			return derivatives.Contract{}, err
		}
	}

	d.book.Add(c)
	if units > 0 {
		d.book.AddHolder(c.ID, buyerUID, units)
		buyer.AddOption(c.ID, units)
		d.vault.Credit(cost)
	}

	monitoring.QuotesIssued.WithLabelValues(string(kind)).Inc()
	d.bus.Publish(event.EventOptionQuoted, c)
	d.log.Info("option sold",
		zap.String("contract", c.ID),
		zap.String("kind", string(kind)),
		zap.String("asset", assetID),
		zap.Float64("strike", c.Strike),
		zap.Float64("premium", c.Premium),
		zap.Int("units", units))

	return c, nil
}

// Buyback repurchases units from a holder at the issuance premium. The
// holder is matched by contract ID only; holding two contracts on the same
// asset never releases the wrong one.
func (d *Desk) Buyback(holder Account, uid int, contractID string, units int) (decimal.Decimal, error) {
	if units <= 0 {
		return decimal.Zero, pricing.ErrInvalidInput
	}

	c, ok := d.book.Get(contractID)
	if !ok {
		return decimal.Zero, ErrUnknownContract
	}

	released := holder.ReleaseOption(contractID, units)
	if released == 0 {
		return decimal.Zero, ErrNoHoldings
	}
	d.book.ReleaseHolder(contractID, uid, released)

	refund := decimal.NewFromFloat(c.Premium).Mul(decimal.NewFromInt(int64(released)))
	if err := d.vault.Debit(refund); err != nil {
		holder.AddOption(contractID, released)
		d.book.AddHolder(contractID, uid, released)
		return decimal.Zero, err
	}
	holder.Credit(refund)

	d.log.Info("option bought back",
		zap.String("contract", contractID),
		zap.Int("uid", uid),
		zap.Int("units", released))

	return refund, nil
}
