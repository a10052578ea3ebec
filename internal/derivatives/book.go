package derivatives

import (
	"sort"
	"sync"
	"time"
)

// Holding is one buyer's exposure to a contract.
type Holding struct {
	UID   int `json:"uid"`
	Units int `json:"units"`
}

type entry struct {
	contract Contract
	holders  map[int]int
}

// Book tracks live contracts from issuance until settlement. The bank is
// the writer of every entry; buyers hold zero or more units each.
type Book struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewBook() *Book {
	return &Book{entries: make(map[string]*entry)}
}

func (b *Book) Add(c Contract) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[c.ID] = &entry{contract: c, holders: make(map[int]int)}
}

func (b *Book) Get(id string) (Contract, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entries[id]
	if !ok {
		return Contract{}, false
	}
	return e.contract, true
}

// AddHolder registers units bought against a live contract.
func (b *Book) AddHolder(id string, uid, units int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entries[id]
	if !ok {
		return false
	}
	e.holders[uid] += units
	return true
}

// ReleaseHolder removes up to units from a buyer's position and reports
// how many were actually released.
func (b *Book) ReleaseHolder(id string, uid, units int) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entries[id]
	if !ok {
		return 0
	}
	held := e.holders[uid]
	if held == 0 {
		return 0
	}
	if units > held {
		units = held
	}
	e.holders[uid] = held - units
	if e.holders[uid] == 0 {
		delete(e.holders, uid)
	}
	return units
}

func (b *Book) Remove(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.entries, id)
}

// Holdings returns the buyers of a contract ordered by UID.
func (b *Book) Holdings(id string) []Holding {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entries[id]
	if !ok {
		return nil
	}
	out := make([]Holding, 0, len(e.holders))
	for uid, units := range e.holders {
		out = append(out, Holding{UID: uid, Units: units})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	return out
}

// Expired returns every contract with expiry at or before asOf.
func (b *Book) Expired(asOf time.Time) []Contract {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []Contract
	for _, e := range b.entries {
		if e.contract.Expired(asOf) {
			out = append(out, e.contract)
		}
	}
	return out
}

// Live returns every open contract ordered by issuance time.
func (b *Book) Live() []Contract {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Contract, 0, len(b.entries))
	for _, e := range b.entries {
		out = append(out, e.contract)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IssuedAt.Before(out[j].IssuedAt) })
	return out
}

func (b *Book) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.entries)
}
