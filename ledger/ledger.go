package ledger

import (
	"sync"
	"time"

	"github.com/Enclair743/Kasir123/models"
	"github.com/Enclair743/Kasir123/storage"
)

// Append-only ledgers. A record goes to the persistence backend first,
// so a failed write never leaves a record the store does not have; the
// in-memory copy is extended only after the append is durable. One
// mutex per ledger keeps insertion order stable under concurrent
// appends.

// RemovalLedger records every manual stock removal.
type RemovalLedger struct {
	mu      sync.RWMutex
	store   storage.RemovalLog
	records []models.RemovalRecord
}

// NewRemovalLedger loads existing records from the backing store.
func NewRemovalLedger(store storage.RemovalLog) (*RemovalLedger, error) {
	records, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &RemovalLedger{store: store, records: records}, nil
}

// Append writes the record durably and adds it to the ledger.
func (l *RemovalLedger) Append(record models.RemovalRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.Append(record); err != nil {
		return err
	}
	l.records = append(l.records, record)
	return nil
}

// All returns every record, oldest first.
func (l *RemovalLedger) All() []models.RemovalRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]models.RemovalRecord(nil), l.records...)
}

// Between returns the records with from <= RemovedAt <= to, oldest
// first.
func (l *RemovalLedger) Between(from, to time.Time) []models.RemovalRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []models.RemovalRecord
	for _, r := range l.records {
		if !r.RemovedAt.Before(from) && !r.RemovedAt.After(to) {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of records.
func (l *RemovalLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// TransactionLedger records every committed sale.
type TransactionLedger struct {
	mu    sync.RWMutex
	store storage.TransactionLog
	txs   []models.Transaction
}

// NewTransactionLedger loads existing transactions from the backing
// store.
func NewTransactionLedger(store storage.TransactionLog) (*TransactionLedger, error) {
	txs, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &TransactionLedger{store: store, txs: txs}, nil
}

// Append writes the transaction durably and adds it to the ledger.
func (l *TransactionLedger) Append(tx models.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.Append(tx); err != nil {
		return err
	}
	l.txs = append(l.txs, tx)
	return nil
}

// All returns every transaction, oldest first.
func (l *TransactionLedger) All() []models.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]models.Transaction(nil), l.txs...)
}

// Between returns the transactions with from <= Time <= to, oldest
// first.
func (l *TransactionLedger) Between(from, to time.Time) []models.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []models.Transaction
	for _, tx := range l.txs {
		if !tx.Time.Before(from) && !tx.Time.After(to) {
			out = append(out, tx)
		}
	}
	return out
}

// Len returns the number of transactions.
func (l *TransactionLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.txs)
}
