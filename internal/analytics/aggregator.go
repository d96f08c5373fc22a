package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/modulolabs/bizmanage-backend/internal/models"
	"github.com/modulolabs/bizmanage-backend/internal/pricing"
)

const rankingSize = 5

type productAgg struct {
	id       string
	name     string
	quantity int
	revenue  decimal.Decimal
}

type customerAgg struct {
	id      string
	name    string
	orders  int
	revenue decimal.Decimal
}

// BuildSnapshot computes one sales summary from the full order history and
// the total customer count. It is a single pass with no I/O; the caller is
// responsible for reading the stores and must abort on any read failure so
// a partial snapshot is never produced.
//
// Cancelled orders contribute to nothing. Product revenue is derived from
// quantity/unitPrice/discount rather than the stored per-line subtotal, so
// the ranking stays consistent with the source fields even if a cached
// subtotal has gone stale.
func BuildSnapshot(orders []models.Order, totalCustomers int64, now time.Time) models.SalesAnalytics {
	active := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status != models.StatusCancelled {
			active = append(active, o)
		}
	}

	revenue := decimal.Zero
	orderingCustomers := make(map[string]struct{})
	for _, o := range active {
		revenue = revenue.Add(decimal.NewFromFloat(o.Total))
		orderingCustomers[o.Customer.Hex()] = struct{}{}
	}

	snapshot := models.SalesAnalytics{
		TotalRevenue:   revenue.Round(2).InexactFloat64(),
		TotalOrders:    len(active),
		TotalCustomers: totalCustomers,
	}

	if len(active) > 0 {
		snapshot.AverageOrderValue = revenue.
			Div(decimal.NewFromInt(int64(len(active)))).
			Round(2).InexactFloat64()
	}
	if totalCustomers > 0 {
		snapshot.ConversionRate = float64(len(orderingCustomers)) / float64(totalCustomers) * 100
	}

	snapshot.TopProducts = rankProducts(active)
	snapshot.TopCustomers = rankCustomers(active)
	snapshot.RevenueByMonth = monthlyTrend(active, now)

	return snapshot
}

func rankProducts(orders []models.Order) []models.TopProduct {
	byProduct := make(map[string]*productAgg)
	var seen []*productAgg // insertion order keeps ties stable

	for _, o := range orders {
		for _, item := range o.Items {
			key := item.Product.Hex()
			agg, ok := byProduct[key]
			if !ok {
				agg = &productAgg{id: key, name: item.ProductName, revenue: decimal.Zero}
				byProduct[key] = agg
				seen = append(seen, agg)
			}
			agg.quantity += item.Quantity
			agg.revenue = agg.revenue.Add(pricing.LineNet(item))
		}
	}

	sort.SliceStable(seen, func(i, j int) bool {
		return seen[i].revenue.GreaterThan(seen[j].revenue)
	})
	if len(seen) > rankingSize {
		seen = seen[:rankingSize]
	}

	top := make([]models.TopProduct, 0, len(seen))
	for _, agg := range seen {
		top = append(top, models.TopProduct{
			ProductID:   agg.id,
			ProductName: agg.name,
			Quantity:    agg.quantity,
			Revenue:     agg.revenue.Round(2).InexactFloat64(),
		})
	}
	return top
}

func rankCustomers(orders []models.Order) []models.TopCustomer {
	byCustomer := make(map[string]*customerAgg)
	var seen []*customerAgg

	for _, o := range orders {
		key := o.Customer.Hex()
		agg, ok := byCustomer[key]
		if !ok {
			agg = &customerAgg{id: key, name: o.CustomerName, revenue: decimal.Zero}
			byCustomer[key] = agg
			seen = append(seen, agg)
		}
		agg.orders++
		agg.revenue = agg.revenue.Add(decimal.NewFromFloat(o.Total))
	}

	sort.SliceStable(seen, func(i, j int) bool {
		return seen[i].revenue.GreaterThan(seen[j].revenue)
	})
	if len(seen) > rankingSize {
		seen = seen[:rankingSize]
	}

	top := make([]models.TopCustomer, 0, len(seen))
	for _, agg := range seen {
		top = append(top, models.TopCustomer{
			CustomerID:   agg.id,
			CustomerName: agg.name,
			Orders:       agg.orders,
			Revenue:      agg.revenue.Round(2).InexactFloat64(),
		})
	}
	return top
}

// monthlyTrend buckets orders into the trailing 12 calendar months,
// oldest first, with the current month as the last entry.
func monthlyTrend(orders []models.Order, now time.Time) []models.MonthlyRevenue {
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	trend := make([]models.MonthlyRevenue, 0, 12)
	for i := 11; i >= 0; i-- {
		windowStart := currentMonth.AddDate(0, -i, 0)
		windowEnd := windowStart.AddDate(0, 1, 0)

		monthRevenue := decimal.Zero
		count := 0
		for _, o := range orders {
			if !o.CreatedAt.Before(windowStart) && o.CreatedAt.Before(windowEnd) {
				monthRevenue = monthRevenue.Add(decimal.NewFromFloat(o.Total))
				count++
			}
		}

		trend = append(trend, models.MonthlyRevenue{
			Month:   windowStart.Format("Jan 2006"),
			Revenue: monthRevenue.Round(2).InexactFloat64(),
			Orders:  count,
		})
	}
	return trend
}
