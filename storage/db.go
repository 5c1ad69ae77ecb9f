package storage

import (
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Enclair743/Kasir123/models"
)

// GORM backend. MySQL matches the usual deployment; SQLite keeps the
// core embeddable and is what the tests run against.

// OpenMySQL connects to MySQL, waiting for the database to come up.
func OpenMySQL(dsn string) (*Backend, error) {
	var db *gorm.DB
	var err error

	for i := 0; i < 5; i++ {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err == nil {
			break
		}
		log.Printf("Failed to connect to database. Retrying in 2 seconds... (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, models.WrapPersistence(err)
	}

	log.Println("Connected to MySQL")
	return openGorm(db)
}

// OpenSQLite opens (or creates) a SQLite database at path. Pass
// ":memory:" for an ephemeral store.
func OpenSQLite(path string) (*Backend, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, models.WrapPersistence(err)
	}
	return openGorm(db)
}

func openGorm(db *gorm.DB) (*Backend, error) {
	err := db.AutoMigrate(
		&models.Product{},
		&models.RemovalRecord{},
		&models.Transaction{},
		&models.CartLine{},
	)
	if err != nil {
		return nil, models.WrapPersistence(err)
	}
	return &Backend{
		Products:     &dbProductStore{db: db},
		Removals:     &dbRemovalLog{db: db},
		Transactions: &dbTransactionLog{db: db},
	}, nil
}

type dbProductStore struct {
	db *gorm.DB
}

func (s *dbProductStore) Load() ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Order("category, name").Find(&products).Error; err != nil {
		return nil, models.WrapPersistence(err)
	}
	return products, nil
}

// Replace rewrites the product table wholesale inside one database
// transaction, mirroring the whole-file rewrite of the JSON backend.
func (s *dbProductStore) Replace(products []models.Product) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Product{}).Error; err != nil {
			return err
		}
		if len(products) == 0 {
			return nil
		}
		return tx.Create(&products).Error
	})
	if err != nil {
		return models.WrapPersistence(err)
	}
	return nil
}

type dbRemovalLog struct {
	db *gorm.DB
}

func (s *dbRemovalLog) Load() ([]models.RemovalRecord, error) {
	var records []models.RemovalRecord
	if err := s.db.Order("removed_at").Find(&records).Error; err != nil {
		return nil, models.WrapPersistence(err)
	}
	return records, nil
}

func (s *dbRemovalLog) Append(record models.RemovalRecord) error {
	if err := s.db.Create(&record).Error; err != nil {
		return models.WrapPersistence(err)
	}
	return nil
}

type dbTransactionLog struct {
	db *gorm.DB
}

func (s *dbTransactionLog) Load() ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := s.db.Preload("Lines").Order("time").Find(&txs).Error; err != nil {
		return nil, models.WrapPersistence(err)
	}
	return txs, nil
}

func (s *dbTransactionLog) Append(tx models.Transaction) error {
	// GORM inserts the lines alongside the header via the foreign key.
	if err := s.db.Create(&tx).Error; err != nil {
		return models.WrapPersistence(err)
	}
	return nil
}
