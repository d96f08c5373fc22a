package models

// TopProduct is one row of the product ranking, keyed by product id with
// revenue derived from the authoritative line-item fields.
type TopProduct struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Revenue     float64 `json:"revenue"`
}

type TopCustomer struct {
	CustomerID   string  `json:"customerId"`
	CustomerName string  `json:"customerName"`
	Orders       int     `json:"orders"`
	Revenue      float64 `json:"revenue"`
}

// MonthlyRevenue is one bucket of the trailing 12-month trend.
type MonthlyRevenue struct {
	Month   string  `json:"month"` // e.g., "Jan 2026"
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// SalesAnalytics is computed fresh on every request and never persisted.
type SalesAnalytics struct {
	TotalRevenue      float64          `json:"totalRevenue"`
	TotalOrders       int              `json:"totalOrders"`
	TotalCustomers    int64            `json:"totalCustomers"`
	AverageOrderValue float64          `json:"averageOrderValue"`
	ConversionRate    float64          `json:"conversionRate"`
	TopProducts       []TopProduct     `json:"topProducts"`
	TopCustomers      []TopCustomer    `json:"topCustomers"`
	RevenueByMonth    []MonthlyRevenue `json:"revenueByMonth"`
}
