package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/Enclair743/Kasir123/models"
)

// JSON-file backend: one file per store, rewritten wholesale on every
// mutation. The rewrite goes through a temp file plus rename so a
// crash mid-write leaves the previous contents intact.

const (
	productsFile     = "products.json"
	removalsFile     = "removals.json"
	transactionsFile = "transactions.json"
)

// OpenJSONDir opens the JSON file stores under dir, creating the
// directory if needed. Missing files read as empty stores.
func OpenJSONDir(dir string) (*Backend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, models.WrapPersistence(err)
	}
	return &Backend{
		Products:     &jsonProductStore{path: filepath.Join(dir, productsFile)},
		Removals:     &jsonRemovalLog{path: filepath.Join(dir, removalsFile)},
		Transactions: &jsonTransactionLog{path: filepath.Join(dir, transactionsFile)},
	}, nil
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return models.WrapPersistence(err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return models.WrapPersistence(err)
	}
	return nil
}

// writeJSON replaces path atomically: write a temp file in the same
// directory, then rename it over the target.
func writeJSON(path string, in any) error {
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return models.WrapPersistence(err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return models.WrapPersistence(err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return models.WrapPersistence(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return models.WrapPersistence(err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return models.WrapPersistence(err)
	}
	return nil
}

type jsonProductStore struct {
	path string
}

func (s *jsonProductStore) Load() ([]models.Product, error) {
	var products []models.Product
	if err := readJSON(s.path, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *jsonProductStore) Replace(products []models.Product) error {
	if products == nil {
		products = []models.Product{}
	}
	return writeJSON(s.path, products)
}

type jsonRemovalLog struct {
	path string
}

func (s *jsonRemovalLog) Load() ([]models.RemovalRecord, error) {
	var records []models.RemovalRecord
	if err := readJSON(s.path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *jsonRemovalLog) Append(record models.RemovalRecord) error {
	records, err := s.Load()
	if err != nil {
		return err
	}
	return writeJSON(s.path, append(records, record))
}

type jsonTransactionLog struct {
	path string
}

func (s *jsonTransactionLog) Load() ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := readJSON(s.path, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (s *jsonTransactionLog) Append(tx models.Transaction) error {
	txs, err := s.Load()
	if err != nil {
		return err
	}
	return writeJSON(s.path, append(txs, tx))
}
