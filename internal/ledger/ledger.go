package ledger

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"marketsim/internal/settlement"
)

// Journal writes settlement cash flows to the cash_events table, one row
// per holder per settled contract.
type Journal struct {
	db *sql.DB
}

func New(db *sql.DB) *Journal {
	return &Journal{db: db}
}

func (j *Journal) Record(ev settlement.CashEvent, day time.Time) error {
	ref := uuid.New().String()
	amount, _ := ev.Amount.Float64()

	_, err := j.db.Exec(`
	INSERT INTO cash_events(ref,uid,contract_id,amount,day,ts)
	VALUES (?,?,?,?,?,?)
	`, ref, ev.UID, ev.ContractID, amount, day.Format("2006-01-02"), time.Now().Unix())

	return err
}

// Total sums the journaled cash flows for one holder.
func (j *Journal) Total(uid int) (float64, error) {
	var total sql.NullFloat64
	err := j.db.QueryRow(`SELECT SUM(amount) FROM cash_events WHERE uid=?`, uid).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Float64, nil
}
