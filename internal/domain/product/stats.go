package product

// Stats is the aggregate inventory value over a snapshot of products.
type Stats struct {
	TotalValueCents   int64   `json:"TotalValueCents"`
	TotalValueDollars float64 `json:"TotalValueDollars"`
	TotalProducts     int     `json:"TotalProducts"`
	TotalQuantity     int64   `json:"TotalQuantity"`
}

// ComputeStats folds the products into Stats without modifying them.
func ComputeStats(products []*Product) Stats {
	var stats Stats
	for _, p := range products {
		if p == nil {
			continue
		}
		stats.TotalValueCents += int64(p.Quantity) * p.PriceInCents
		stats.TotalQuantity += int64(p.Quantity)
		stats.TotalProducts++
	}
	stats.TotalValueDollars = float64(stats.TotalValueCents) / 100.0
	return stats
}
