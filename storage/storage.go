package storage

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/Enclair743/Kasir123/models"
)

// ProductStore persists the catalog. The whole product set is read and
// rewritten wholesale on each mutation; Replace must be atomic so a
// crash mid-write cannot corrupt the store.
type ProductStore interface {
	Load() ([]models.Product, error)
	Replace(products []models.Product) error
}

// RemovalLog persists the removal ledger. Append must be durable
// before it returns.
type RemovalLog interface {
	Load() ([]models.RemovalRecord, error)
	Append(record models.RemovalRecord) error
}

// TransactionLog persists the transaction ledger.
type TransactionLog interface {
	Load() ([]models.Transaction, error)
	Append(tx models.Transaction) error
}

// Backend bundles the three stores the core needs.
type Backend struct {
	Products     ProductStore
	Removals     RemovalLog
	Transactions TransactionLog
}

// OpenFromEnv picks a backend from the environment:
//   - DB_DSN set   -> MySQL via GORM
//   - DB_PATH set  -> SQLite via GORM
//   - otherwise    -> JSON files under DATA_DIR (default ./data)
func OpenFromEnv() (*Backend, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}

	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		return OpenMySQL(dsn)
	}
	if path := os.Getenv("DB_PATH"); path != "" {
		return OpenSQLite(path)
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}
	return OpenJSONDir(dataDir)
}
