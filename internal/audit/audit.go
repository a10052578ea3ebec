package audit

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"marketsim/internal/derivatives"
	"marketsim/internal/event"
	"marketsim/internal/settlement"
)

type Service struct {
	db *sql.DB
}

func New(db *sql.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Log(action, metadata string) {
	s.db.Exec(`
	INSERT INTO audit_logs(ref, action, metadata, ts)
	VALUES (?, ?, ?, ?)
	`, uuid.New().String(), action, metadata, time.Now().Unix())
}

// RegisterConsumers records every quote and settlement on the bus.
func RegisterConsumers(bus *event.Bus, s *Service) {
	bus.Subscribe(event.EventOptionQuoted, func(payload interface{}) {
		c, ok := payload.(derivatives.Contract)
		if !ok {
			return
		}
		s.Log("option_quoted", fmt.Sprintf("%s %s on %s strike=%.4f premium=%.4f expiry=%s",
			c.ID, c.Kind, c.Underlying, c.Strike, c.Premium, c.Expiry.Format("2006-01-02")))
	})

	bus.Subscribe(event.EventOptionSettled, func(payload interface{}) {
		ev, ok := payload.(settlement.CashEvent)
		if !ok {
			return
		}
		s.Log("option_settled", fmt.Sprintf("%s uid=%d units=%d payoff=%.4f",
			ev.ContractID, ev.UID, ev.Units, ev.Payoff))
	})
}
