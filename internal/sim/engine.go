package sim

import (
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"marketsim/internal/bank"
	"marketsim/internal/derivatives"
	"marketsim/internal/event"
	"marketsim/internal/ledger"
	"marketsim/internal/market"
	"marketsim/internal/monitoring"
	"marketsim/internal/portfolio"
	"marketsim/internal/pricing"
	"marketsim/internal/settlement"
)

// DaySnapshot is the read-only view published after every completed day.
type DaySnapshot struct {
	Day        int                `json:"day"`
	Date       string             `json:"date"`
	Prices     map[string]float64 `json:"prices"`
	Valuations map[string]string  `json:"valuations"`
}

// Engine drives the turn-based simulation. One Step is a full day: price
// update, scripted trading, settlement, valuation, strictly in that
// order. The mutex serializes days against each other; concurrent HTTP
// requests cannot interleave within one.
type Engine struct {
	mu      sync.Mutex
	market  *market.Market
	desk    *bank.Desk
	book    *derivatives.Book
	vault   *portfolio.Portfolio
	players map[int]*portfolio.Portfolio
	order   []int
	journal *ledger.Journal
	bus     *event.Bus
	rng     *rand.Rand
	log     *zap.Logger

	today time.Time
	day   int

	// Scripted demo traders, mirroring the reference run: UID 1 buys
	// random stock lots, UID 2 buys short-dated options from the bank.
	Scripted bool
}

func NewEngine(m *market.Market, desk *bank.Desk, book *derivatives.Book, vault *portfolio.Portfolio, journal *ledger.Journal, bus *event.Bus, rng *rand.Rand, start time.Time, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		market:  m,
		desk:    desk,
		book:    book,
		vault:   vault,
		players: make(map[int]*portfolio.Portfolio),
		journal: journal,
		bus:     bus,
		rng:     rng,
		log:     log,
		today:   start,
	}
}

func (e *Engine) AddPlayer(p *portfolio.Portfolio) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.players[p.UID]; !ok {
		e.order = append(e.order, p.UID)
	}
	e.players[p.UID] = p
}

func (e *Engine) Player(uid int) (*portfolio.Portfolio, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.players[uid]
	return p, ok
}

func (e *Engine) Today() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.today
}

func (e *Engine) Day() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.day
}

// Step advances the simulation one day and returns the day's snapshot.
func (e *Engine) Step() (DaySnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.step()
}

func (e *Engine) step() (DaySnapshot, error) {
	e.day++
	e.today = e.today.AddDate(0, 0, 1)

	e.market.Advance()

	if e.Scripted {
		e.scriptedTrades()
	}

	if err := e.settle(); err != nil {
		return DaySnapshot{}, err
	}

	snap := e.snapshot()
	monitoring.DaysSimulated.Inc()
	e.bus.Publish(event.EventDayAdvanced, snap)
	e.log.Info("day complete", zap.Int("day", e.day), zap.Int("open_contracts", e.book.Size()))

	return snap, nil
}

// Run steps through the given number of days. A day whose settlement
// fails aborts the run; every other per-operation failure is scoped to
// the operation that raised it.
func (e *Engine) Run(days int) error {
	for i := 0; i < days; i++ {
		if _, err := e.Step(); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) scriptedTrades() {
	expiry := e.today.AddDate(0, 0, 14)

	for _, a := range e.market.Assets() {
		if p, ok := e.players[1]; ok {
			if qty := e.rng.Intn(3); qty > 0 {
				price, err := e.market.Latest(a.ID)
				if err == nil {
					if err := p.BuyStock(a.ID, qty, price); err != nil {
						e.log.Debug("scripted stock buy skipped", zap.String("asset", a.ID), zap.Error(err))
					}
				}
			}
		}

		if p, ok := e.players[2]; ok {
			kind := pricing.Call
			if e.rng.Intn(2) == 1 {
				kind = pricing.Put
			}
			units := e.rng.Intn(2)
			if _, err := e.desk.Sell(p, p.UID, kind, a.ID, expiry, e.today, 1, units); err != nil {
				e.log.Debug("scripted option buy skipped", zap.String("asset", a.ID), zap.Error(err))
			}
		}
	}
}

func (e *Engine) settle() error {
	events, settled, err := settlement.SettleExpired(e.book, e.today, e.market.LatestPrices())

	for _, ev := range events {
		if p, ok := e.players[ev.UID]; ok {
			p.Credit(ev.Amount)
			p.ReleaseOption(ev.ContractID, ev.Units)
		}
		if jerr := e.journal.Record(ev, e.today); jerr != nil {
			e.log.Warn("journal write failed", zap.Error(jerr))
		}
		payout, _ := ev.Amount.Float64()
		monitoring.PayoutTotal.Add(payout)
		e.bus.Publish(event.EventOptionSettled, ev)
	}

	// count what was actually removed, including removals before an abort
	if settled > 0 {
		monitoring.ContractsSettled.Add(float64(settled))
	}
	if err != nil {
		e.log.Error("settlement aborted", zap.Error(err))
		return err
	}
	return nil
}

func (e *Engine) snapshot() DaySnapshot {
	prices := e.market.LatestPrices()

	valuations := make(map[string]string, len(e.players)+1)
	for _, uid := range e.order {
		p := e.players[uid]
		valuations[p.Name] = p.Valuation(prices).StringFixed(2)
	}
	valuations[e.vault.Name] = e.vault.Valuation(prices).StringFixed(2)

	return DaySnapshot{
		Day:        e.day,
		Date:       e.today.Format("2006-01-02"),
		Prices:     prices,
		Valuations: valuations,
	}
}
