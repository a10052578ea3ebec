package market

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
)

var ErrUnknownAsset = errors.New("market: unknown asset")

// Asset is a synthetic instrument following a bounded random walk: each
// day the price is multiplied by a draw from uniform(mean-v, mean+v) where
// mean and v are themselves drawn per day from the asset's ranges.
type Asset struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	MeanLo  float64 `json:"mean_lo"`
	MeanHi  float64 `json:"mean_hi"`
	VarLo   float64 `json:"var_lo"`
	VarHi   float64 `json:"var_hi"`
	history []float64
}

func NewAsset(id, name string, initial, meanLo, meanHi, varLo, varHi float64) *Asset {
	return &Asset{
		ID:      id,
		Name:    name,
		MeanLo:  meanLo,
		MeanHi:  meanHi,
		VarLo:   varLo,
		VarHi:   varHi,
		history: []float64{initial},
	}
}

func (a *Asset) step(rng *rand.Rand) {
	mean := a.MeanLo + rng.Float64()*(a.MeanHi-a.MeanLo)
	v := a.VarLo + rng.Float64()*(a.VarHi-a.VarLo)
	factor := mean - v + rng.Float64()*2*v

	last := a.history[len(a.history)-1]
	next := last * factor
	if next < 0.001 {
		next = 0.001
	}
	a.history = append(a.history, next)
}

// Market is the registry of simulated assets. One price append per asset
// per simulated day; histories are append-only.
type Market struct {
	mu     sync.Mutex
	assets map[string]*Asset
	order  []string
	rng    *rand.Rand
}

func New(rng *rand.Rand) *Market {
	return &Market{assets: make(map[string]*Asset), rng: rng}
}

func (m *Market) Add(a *Asset) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.assets[a.ID]; !ok {
		m.order = append(m.order, a.ID)
	}
	m.assets[a.ID] = a
}

// Advance moves every asset forward one day, in insertion order so a
// seeded run is reproducible.
func (m *Market) Advance() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range m.order {
		m.assets[id].step(m.rng)
	}
}

func (m *Market) Latest(id string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.assets[id]
	if !ok {
		return 0, ErrUnknownAsset
	}
	return a.history[len(a.history)-1], nil
}

// History returns a copy of an asset's full price path.
func (m *Market) History(id string) ([]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.assets[id]
	if !ok {
		return nil, ErrUnknownAsset
	}
	out := make([]float64, len(a.history))
	copy(out, a.history)
	return out, nil
}

// LatestPrices snapshots the current price of every asset.
func (m *Market) LatestPrices() map[string]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]float64, len(m.assets))
	for id, a := range m.assets {
		out[id] = a.history[len(a.history)-1]
	}
	return out
}

// Assets lists the registered assets ordered by ID.
func (m *Market) Assets() []*Asset {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Asset, 0, len(m.assets))
	for _, a := range m.assets {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SeedAssets populates the market with n synthetic assets whose drift and
// noise ranges are themselves randomized, matching the reference run.
func SeedAssets(m *Market, n int, rng *rand.Rand) {
	for i := 1; i <= n; i++ {
		lower := 0.95 + rng.Float64()*0.04
		upper := 1.01 + rng.Float64()*0.06
		initial := float64(95 + rng.Intn(11))
		m.Add(NewAsset(
			fmt.Sprintf("asset-%d", i),
			fmt.Sprintf("Asset %d", i),
			initial, lower, upper, 0.005, upper/lower-1,
		))
	}
}
