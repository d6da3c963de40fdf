package prescription

import (
	"time"

	"github.com/rs/zerolog"
)

// Phase is a state of a prescription transaction.
type Phase string

const (
	PhaseValidating  Phase = "validating"
	PhaseReserving   Phase = "reserving"
	PhaseCommitting  Phase = "committing"
	PhaseCommitted   Phase = "committed"
	PhaseRollingBack Phase = "rolling_back"
	PhaseRolledBack  Phase = "rolled_back"
	PhaseFailed      Phase = "failed"
)

var transitions = map[Phase][]Phase{
	PhaseValidating:  {PhaseReserving, PhaseFailed},
	PhaseReserving:   {PhaseCommitting, PhaseRollingBack},
	PhaseCommitting:  {PhaseCommitted, PhaseRollingBack},
	PhaseRollingBack: {PhaseRolledBack},
	PhaseRolledBack:  {PhaseFailed},
}

// Terminal reports whether no further transition is possible.
func (p Phase) Terminal() bool {
	return p == PhaseCommitted || p == PhaseFailed
}

func (p Phase) canMoveTo(next Phase) bool {
	for _, allowed := range transitions[p] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Observer is notified after every phase change.
type Observer func(tx *Transaction, phase Phase)

// Transaction tracks one issuance attempt: the merged lines, the stock each
// drug had before reservation and which drugs have been decremented.
type Transaction struct {
	ExaminationID  string
	Items          []RequestItem
	PrescriptionID string
	Err            error

	phase           Phase
	history         []Phase
	before          map[string]int
	names           map[string]string
	applied         []string
	restoreFailures []string
	started         time.Time

	logger   zerolog.Logger
	observer Observer
}

func newTransaction(examinationID string, logger zerolog.Logger, observer Observer) *Transaction {
	tx := &Transaction{
		ExaminationID: examinationID,
		phase:         PhaseValidating,
		history:       []Phase{PhaseValidating},
		before:        make(map[string]int),
		names:         make(map[string]string),
		started:       time.Now(),
		logger:        logger.With().Str("examination_id", examinationID).Logger(),
		observer:      observer,
	}
	tx.logger.Debug().Str("phase", string(PhaseValidating)).Msg("prescription transaction started")
	return tx
}

func (tx *Transaction) Phase() Phase {
	return tx.phase
}

// History lists every phase the transaction has been in, oldest first.
func (tx *Transaction) History() []Phase {
	return append([]Phase(nil), tx.history...)
}

// Applied lists the drugs decremented so far, in reservation order.
func (tx *Transaction) Applied() []string {
	return append([]string(nil), tx.applied...)
}

// RestoreFailures lists the drugs whose stock could not be put back.
func (tx *Transaction) RestoreFailures() []string {
	return append([]string(nil), tx.restoreFailures...)
}

func (tx *Transaction) drugIDs() []string {
	ids := make([]string, len(tx.Items))
	for i, it := range tx.Items {
		ids[i] = it.DrugID
	}
	return ids
}

func (tx *Transaction) moveTo(next Phase) {
	if !tx.phase.canMoveTo(next) {
		panic("prescription: illegal transition " + string(tx.phase) + " -> " + string(next))
	}
	tx.phase = next
	tx.history = append(tx.history, next)
	tx.logger.Debug().Str("phase", string(next)).Strs("applied", tx.applied).Msg("prescription transaction phase")
	if tx.observer != nil {
		tx.observer(tx, next)
	}
}
