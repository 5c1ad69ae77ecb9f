package storage

import (
	"github.com/Enclair743/Kasir123/models"
)

// In-memory backend: nothing survives the process. Useful for tests
// and for callers that layer their own persistence on top.

// NewMemory returns a backend that keeps everything in process memory.
func NewMemory() *Backend {
	return &Backend{
		Products:     &memProductStore{},
		Removals:     &memRemovalLog{},
		Transactions: &memTransactionLog{},
	}
}

type memProductStore struct {
	products []models.Product
}

func (s *memProductStore) Load() ([]models.Product, error) {
	return append([]models.Product(nil), s.products...), nil
}

func (s *memProductStore) Replace(products []models.Product) error {
	s.products = append([]models.Product(nil), products...)
	return nil
}

type memRemovalLog struct {
	records []models.RemovalRecord
}

func (s *memRemovalLog) Load() ([]models.RemovalRecord, error) {
	return append([]models.RemovalRecord(nil), s.records...), nil
}

func (s *memRemovalLog) Append(record models.RemovalRecord) error {
	s.records = append(s.records, record)
	return nil
}

type memTransactionLog struct {
	txs []models.Transaction
}

func (s *memTransactionLog) Load() ([]models.Transaction, error) {
	return append([]models.Transaction(nil), s.txs...), nil
}

func (s *memTransactionLog) Append(tx models.Transaction) error {
	s.txs = append(s.txs, tx)
	return nil
}
