package reports

import (
	"sort"
	"time"

	"github.com/Enclair743/Kasir123/catalog"
	"github.com/Enclair743/Kasir123/ledger"
	"github.com/Enclair743/Kasir123/models"
)

// Read-only aggregations over the ledgers and the catalog. This is
// what dashboard and report screens consume; nothing here mutates core
// state.

// SalesSummary totals the committed sales inside a date window.
type SalesSummary struct {
	TotalRevenue      float64 `json:"total_revenue"`
	TotalTransactions int     `json:"total_transactions"`
	DailyAverage      float64 `json:"daily_average"`
}

// Summarize computes revenue, transaction count and the average
// revenue per active day between from and to.
func Summarize(l *ledger.TransactionLedger, from, to time.Time) SalesSummary {
	txs := l.Between(from, to)

	var summary SalesSummary
	summary.TotalTransactions = len(txs)
	days := make(map[string]bool)
	for _, tx := range txs {
		summary.TotalRevenue += tx.Total
		days[tx.Time.Format("2006-01-02")] = true
	}
	if len(days) > 0 {
		summary.DailyAverage = summary.TotalRevenue / float64(len(days))
	}
	return summary
}

// CashierTotal is one actor's share of the revenue.
type CashierTotal struct {
	ActorID      string  `json:"actor_id"`
	TotalRevenue float64 `json:"total_revenue"`
	Transactions int     `json:"transactions"`
}

// CashierTotals groups revenue by the actor who processed the sale,
// biggest earner first.
func CashierTotals(l *ledger.TransactionLedger, from, to time.Time) []CashierTotal {
	grouped := make(map[string]*CashierTotal)
	for _, tx := range l.Between(from, to) {
		ct, ok := grouped[tx.ActorID]
		if !ok {
			ct = &CashierTotal{ActorID: tx.ActorID}
			grouped[tx.ActorID] = ct
		}
		ct.TotalRevenue += tx.Total
		ct.Transactions++
	}

	out := make([]CashierTotal, 0, len(grouped))
	for _, ct := range grouped {
		out = append(out, *ct)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalRevenue != out[j].TotalRevenue {
			return out[i].TotalRevenue > out[j].TotalRevenue
		}
		return out[i].ActorID < out[j].ActorID
	})
	return out
}

// TopSeller is one product's all-time sales tally.
type TopSeller struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Sold     int     `json:"sold"`
	Revenue  float64 `json:"revenue"`
}

// TopSelling returns the n best-selling products by units sold.
func TopSelling(l *ledger.TransactionLedger, n int) []TopSeller {
	grouped := make(map[models.ProductKey]*TopSeller)
	for _, tx := range l.All() {
		for _, line := range tx.Lines {
			ts, ok := grouped[line.Key()]
			if !ok {
				ts = &TopSeller{Name: line.Name, Category: line.Category}
				grouped[line.Key()] = ts
			}
			ts.Sold += line.Quantity
			ts.Revenue += line.Subtotal
		}
	}

	out := make([]TopSeller, 0, len(grouped))
	for _, ts := range grouped {
		out = append(out, *ts)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sold != out[j].Sold {
			return out[i].Sold > out[j].Sold
		}
		return out[i].Name < out[j].Name
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ValuationItem is one product's cost value inside its category table.
type ValuationItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	CostPrice float64 `json:"cost_price"`
	TotalCost float64 `json:"total_cost"`
}

// CategoryValuation groups the valuation rows of one category.
type CategoryValuation struct {
	CategoryName string          `json:"category_name"`
	Items        []ValuationItem `json:"items"`
	Subtotal     float64         `json:"subtotal"`
}

// Valuation is the total monetary value of all physical inventory.
type Valuation struct {
	Categories []CategoryValuation `json:"categories"`
	GrandTotal float64             `json:"grand_total"`
}

// StockValuation prices the remaining stock at cost, grouped by
// category.
func StockValuation(c *catalog.Store) Valuation {
	grouped := make(map[string]*CategoryValuation)

	var valuation Valuation
	for _, p := range c.All() {
		catName := p.Category
		if catName == "" {
			catName = "Uncategorized"
		}

		group, ok := grouped[catName]
		if !ok {
			group = &CategoryValuation{CategoryName: catName}
			grouped[catName] = group
		}

		itemTotal := float64(p.Stock) * p.CostPrice
		group.Items = append(group.Items, ValuationItem{
			Name:      p.Name,
			Quantity:  p.Stock,
			CostPrice: p.CostPrice,
			TotalCost: itemTotal,
		})
		group.Subtotal += itemTotal
		valuation.GrandTotal += itemTotal
	}

	for _, group := range grouped {
		valuation.Categories = append(valuation.Categories, *group)
	}
	sort.Slice(valuation.Categories, func(i, j int) bool {
		return valuation.Categories[i].CategoryName < valuation.Categories[j].CategoryName
	})
	return valuation
}

// RemovalHistory returns the removal records inside the window, oldest
// first.
func RemovalHistory(l *ledger.RemovalLedger, from, to time.Time) []models.RemovalRecord {
	return l.Between(from, to)
}
