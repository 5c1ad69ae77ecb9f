package checkout

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Enclair743/Kasir123/cart"
	"github.com/Enclair743/Kasir123/catalog"
	"github.com/Enclair743/Kasir123/ledger"
	"github.com/Enclair743/Kasir123/models"
)

// Engine turns a cart into a committed transaction. Nothing mutates
// until every line has been re-validated against live stock and the
// payment covers the total; after that the stock decrement and the
// ledger append either both happen or both do not.
type Engine struct {
	catalog      *catalog.Store
	transactions *ledger.TransactionLedger
}

// NewEngine wires the engine to the catalog it sells from and the
// ledger it records into.
func NewEngine(catalog *catalog.Store, transactions *ledger.TransactionLedger) *Engine {
	return &Engine{catalog: catalog, transactions: transactions}
}

// Checkout commits c as a sale processed by actorID.
//
// Cash payments must cover the total and get the difference back as
// change; QRIS/Transfer payments are taken at exactly the total
// regardless of amountPaid. On success the cart is cleared; on any
// error the cart is left intact so the cashier can retry.
func (e *Engine) Checkout(c *cart.Cart, method models.PaymentMethod, amountPaid float64, actorID string) (models.Transaction, error) {
	lines := c.Lines()
	if len(lines) == 0 {
		return models.Transaction{}, models.ErrEmptyCart
	}

	var total float64
	for _, line := range lines {
		total += line.Subtotal
	}

	var changeDue float64
	switch method {
	case models.PaymentCash:
		if amountPaid < total {
			return models.Transaction{}, models.ErrInsufficientPayment
		}
		changeDue = amountPaid - total
	default:
		amountPaid = total
		changeDue = 0
	}

	// Re-validate against live stock and decrement, all under the
	// catalog lock. Stock may have moved since the cart was built.
	if err := e.catalog.CommitSale(lines); err != nil {
		return models.Transaction{}, err
	}

	tx := models.Transaction{
		ID:         uuid.NewString(),
		Time:       time.Now(),
		ActorID:    actorID,
		Lines:      lines,
		Total:      total,
		AmountPaid: amountPaid,
		ChangeDue:  changeDue,
		Method:     method,
	}
	if err := e.transactions.Append(tx); err != nil {
		// Undo the decrement so a failed ledger write does not eat
		// stock that was never sold.
		if rerr := e.catalog.ReleaseSale(lines); rerr != nil {
			log.Printf("checkout: failed to restore stock after ledger error: %v", rerr)
		}
		return models.Transaction{}, err
	}

	c.Clear()
	return tx, nil
}
