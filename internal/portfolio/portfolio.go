package portfolio

import (
	"errors"
	"sync"

	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientFunds    = errors.New("portfolio: insufficient funds")
	ErrInsufficientHoldings = errors.New("portfolio: insufficient holdings")
)

// TradeFee is the flat per-order stock commission.
var TradeFee = decimal.NewFromInt(5)

// Portfolio is one participant's book: cash, stock positions by asset ID
// and option units by contract ID.
type Portfolio struct {
	mu      sync.Mutex
	UID     int
	Name    string
	cash    decimal.Decimal
	stocks  map[string]int
	options map[string]int
}

func New(uid int, name string, initialCash decimal.Decimal) *Portfolio {
	return &Portfolio{
		UID:     uid,
		Name:    name,
		cash:    initialCash,
		stocks:  make(map[string]int),
		options: make(map[string]int),
	}
}

func (p *Portfolio) Cash() decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.cash
}

func (p *Portfolio) Credit(amount decimal.Decimal) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cash = p.cash.Add(amount)
}

func (p *Portfolio) Debit(amount decimal.Decimal) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if amount.GreaterThan(p.cash) {
		return ErrInsufficientFunds
	}
	p.cash = p.cash.Sub(amount)
	return nil
}

// BuyStock debits qty*price plus the flat fee and adds the position.
func (p *Portfolio) BuyStock(assetID string, qty int, price float64) error {
	cost := decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(qty))).Add(TradeFee)
	if err := p.Debit(cost); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.stocks[assetID] += qty
	return nil
}

// SellStock credits qty*price minus the flat fee and reduces the position.
func (p *Portfolio) SellStock(assetID string, qty int, price float64) error {
	p.mu.Lock()
	if p.stocks[assetID] < qty {
		p.mu.Unlock()
		return ErrInsufficientHoldings
	}
	p.stocks[assetID] -= qty
	if p.stocks[assetID] == 0 {
		delete(p.stocks, assetID)
	}
	p.mu.Unlock()

	proceeds := decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(qty))).Sub(TradeFee)
	p.Credit(proceeds)
	return nil
}

func (p *Portfolio) StockQty(assetID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.stocks[assetID]
}

func (p *Portfolio) AddOption(contractID string, units int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.options[contractID] += units
}

// ReleaseOption removes up to units of a contract and reports how many
// were actually held.
func (p *Portfolio) ReleaseOption(contractID string, units int) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	held := p.options[contractID]
	if held == 0 {
		return 0
	}
	if units > held {
		units = held
	}
	p.options[contractID] = held - units
	if p.options[contractID] == 0 {
		delete(p.options, contractID)
	}
	return units
}

func (p *Portfolio) Holds(contractID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.options[contractID] > 0
}

func (p *Portfolio) OptionUnits(contractID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.options[contractID]
}

// Valuation marks the book to market: cash plus stock positions at the
// given prices. Open options are carried at zero until settlement.
func (p *Portfolio) Valuation(prices map[string]float64) decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()

	total := p.cash
	for assetID, qty := range p.stocks {
		price, ok := prices[assetID]
		if !ok {
			continue
		}
		total = total.Add(decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(qty))))
	}
	return total
}

// Snapshot is a read-only view for reporting.
type Snapshot struct {
	UID     int            `json:"uid"`
	Name    string         `json:"name"`
	Cash    string         `json:"cash"`
	Stocks  map[string]int `json:"stocks"`
	Options map[string]int `json:"options"`
}

func (p *Portfolio) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	stocks := make(map[string]int, len(p.stocks))
	for k, v := range p.stocks {
		stocks[k] = v
	}
	options := make(map[string]int, len(p.options))
	for k, v := range p.options {
		options[k] = v
	}
	return Snapshot{UID: p.UID, Name: p.Name, Cash: p.cash.StringFixed(2), Stocks: stocks, Options: options}
}
