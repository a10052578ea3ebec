package bank

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"marketsim/internal/pricing"
)

// historyWithVol builds a price path ending at spot whose population
// log-return stddev is exactly sigma/sqrt(252), i.e. annualized
// volatility sigma: returns alternate +x, -x an even number of times.
func historyWithVol(spot, sigma float64, n int) []float64 {
	x := sigma / math.Sqrt(252)
	prices := make([]float64, n)
	prices[0] = spot
	for i := 1; i < n; i++ {
		if i%2 == 1 {
			prices[i] = prices[i-1] * math.Exp(x)
		} else {
			prices[i] = prices[i-1] * math.Exp(-x)
		}
	}
	return prices
}

func testDay() time.Time {
	return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
}

// TestVolatilityKnownPath checks the estimator against a path with an
// exactly known return stddev.
func TestVolatilityKnownPath(t *testing.T) {
	history := historyWithVol(100, 0.2, 29)
	vol, err := Volatility(history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(vol-0.2) > 1e-9 {
		t.Errorf("expected vol 0.2; got %.12f", vol)
	}
}

// TestVolatilityFlatPath verifies a constant price has zero volatility.
func TestVolatilityFlatPath(t *testing.T) {
	vol, err := Volatility([]float64{100, 100, 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vol != 0 {
		t.Errorf("expected vol 0 for flat path; got %v", vol)
	}
}

// TestVolatilityInsufficientHistory requires at least two observations.
func TestVolatilityInsufficientHistory(t *testing.T) {
	if _, err := Volatility([]float64{100}); !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("expected ErrInsufficientHistory; got %v", err)
	}
	if _, err := Volatility(nil); !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("expected ErrInsufficientHistory for nil; got %v", err)
	}
}

// TestVolatilityNonPositivePrice rejects a history with an unloggable
// observation instead of returning NaN.
func TestVolatilityNonPositivePrice(t *testing.T) {
	if _, err := Volatility([]float64{100, 0, 100}); !errors.Is(err, pricing.ErrInvalidInput) {
		t.Errorf("zero price: expected ErrInvalidInput; got %v", err)
	}
	if _, err := Volatility([]float64{100, -5}); !errors.Is(err, pricing.ErrInvalidInput) {
		t.Errorf("negative price: expected ErrInvalidInput; got %v", err)
	}
}

// TestIssueRespectsMinPremium: a 2-week call on a 20%-vol asset at spot
// 100 with a 1.00 floor must terminate inside the search bound with a
// strike within 10% of spot.
func TestIssueRespectsMinPremium(t *testing.T) {
	q := NewQuoter(0.025, rand.New(rand.NewSource(7)))
	history := historyWithVol(100, 0.2, 29)
	today := testDay()

	c, err := q.Issue(pricing.Call, "asset-1", history, today.AddDate(0, 0, 14), today, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Premium < 1 {
		t.Errorf("premium %.6f below requested minimum 1", c.Premium)
	}
	if c.Strike < 90 || c.Strike > 110 {
		t.Errorf("strike %.4f outside spot*[0.9,1.1]", c.Strike)
	}
	if c.Kind != pricing.Call || c.Underlying != "asset-1" {
		t.Errorf("contract mislabeled: %+v", c)
	}
	if !c.Expiry.Equal(today.AddDate(0, 0, 14)) {
		t.Errorf("expiry not preserved: %v", c.Expiry)
	}
}

// TestIssueNeverUndercutsMinimum issues repeatedly and checks the floor
// holds for every draw the randomized search lands on.
func TestIssueNeverUndercutsMinimum(t *testing.T) {
	q := NewQuoter(0.025, rand.New(rand.NewSource(11)))
	history := historyWithVol(100, 0.3, 41)
	today := testDay()

	for i := 0; i < 50; i++ {
		kind := pricing.Call
		if i%2 == 1 {
			kind = pricing.Put
		}
		c, err := q.Issue(kind, "a", history, today.AddDate(0, 0, 30), today, 2)
		if err != nil {
			t.Fatalf("issue %d: %v", i, err)
		}
		if c.Premium < 2 {
			t.Fatalf("issue %d: premium %.6f under minimum", i, c.Premium)
		}
	}
}

// TestIssueDeterministicWithSeed verifies two quoters with the same seed
// quote the same strike, so runs are reproducible.
func TestIssueDeterministicWithSeed(t *testing.T) {
	history := historyWithVol(100, 0.2, 29)
	today := testDay()

	a, err := NewQuoter(0.025, rand.New(rand.NewSource(42))).
		Issue(pricing.Call, "a", history, today.AddDate(0, 0, 14), today, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := NewQuoter(0.025, rand.New(rand.NewSource(42))).
		Issue(pricing.Call, "a", history, today.AddDate(0, 0, 14), today, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Strike != b.Strike || a.Premium != b.Premium {
		t.Errorf("seeded issues differ: %.8f/%.8f vs %.8f/%.8f", a.Strike, a.Premium, b.Strike, b.Premium)
	}
}

// TestIssueInsufficientHistory rejects a single-observation history.
func TestIssueInsufficientHistory(t *testing.T) {
	q := NewQuoter(0.025, rand.New(rand.NewSource(1)))
	today := testDay()

	_, err := q.Issue(pricing.Call, "a", []float64{100}, today.AddDate(0, 0, 14), today, 1)
	if !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("expected ErrInsufficientHistory; got %v", err)
	}
}

// TestIssueInvalidExpiration rejects same-day and past expirations.
func TestIssueInvalidExpiration(t *testing.T) {
	q := NewQuoter(0.025, rand.New(rand.NewSource(1)))
	history := historyWithVol(100, 0.2, 29)
	today := testDay()

	if _, err := q.Issue(pricing.Call, "a", history, today, today, 1); !errors.Is(err, ErrInvalidExpiration) {
		t.Errorf("same-day expiry: expected ErrInvalidExpiration; got %v", err)
	}
	if _, err := q.Issue(pricing.Call, "a", history, today.AddDate(0, 0, -1), today, 1); !errors.Is(err, ErrInvalidExpiration) {
		t.Errorf("past expiry: expected ErrInvalidExpiration; got %v", err)
	}
}

// TestIssueQuoteUnattainable verifies the search gives up instead of
// spinning forever when the requested minimum cannot be priced.
func TestIssueQuoteUnattainable(t *testing.T) {
	q := NewQuoter(0.025, rand.New(rand.NewSource(1)))
	today := testDay()

	// Flat history: zero volatility, so no strike anywhere near spot can
	// clear a million-dollar premium.
	_, err := q.Issue(pricing.Call, "a", []float64{100, 100, 100}, today.AddDate(0, 0, 14), today, 1e6)
	if !errors.Is(err, ErrQuoteUnattainable) {
		t.Errorf("expected ErrQuoteUnattainable; got %v", err)
	}
}

// TestIssueNegativeMinPremium is a malformed request, not a search
// failure.
func TestIssueNegativeMinPremium(t *testing.T) {
	q := NewQuoter(0.025, rand.New(rand.NewSource(1)))
	history := historyWithVol(100, 0.2, 29)
	today := testDay()

	if _, err := q.Issue(pricing.Call, "a", history, today.AddDate(0, 0, 14), today, -1); !errors.Is(err, pricing.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput; got %v", err)
	}
}
