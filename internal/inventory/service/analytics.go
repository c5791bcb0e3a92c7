package service

import (
	"context"
	"sort"
	"strings"

	"github.com/unitstock/unitstock-backend/internal/inventory/repository"
	"github.com/unitstock/unitstock-backend/pkg/logger"
)

// Stock classifications, mutually exclusive.
const (
	StockOut  = "out_of_stock"
	StockLow  = "low_stock"
	StockWell = "well_stocked"
)

// defaultMinStockThreshold applies when neither the first variant nor the
// product carries a minimum stock level.
const defaultMinStockThreshold = 5

// defaultMarkup is assumed whenever a variant has no explicit selling price.
const defaultMarkup = 1.5

// categoryRule maps product name keywords to a category. Rules are checked
// top to bottom and the first match wins, so the order of the table is part
// of the reporting contract: reordering it changes which category a product
// named "iPhone 12 Screen" lands in.
type categoryRule struct {
	Category string
	Keywords []string
}

var categoryRules = []categoryRule{
	{Category: "Screens & Displays", Keywords: []string{"screen", "display", "lcd", "digitizer"}},
	{Category: "Batteries", Keywords: []string{"battery", "batteries"}},
	{Category: "Chargers & Cables", Keywords: []string{"charger", "charging", "cable", "adapter"}},
	{Category: "Phones", Keywords: []string{"iphone", "samsung", "phone", "galaxy", "pixel", "huawei", "xiaomi"}},
	{Category: "Laptops", Keywords: []string{"laptop", "macbook", "notebook", "thinkpad"}},
	{Category: "Tablets", Keywords: []string{"tablet", "ipad"}},
	{Category: "Accessories", Keywords: []string{"case", "cover", "protector", "earphone", "headphone", "airpods"}},
}

// defaultCategory catches every product no rule matched.
const defaultCategory = "Other"

// InferCategory assigns a product name to exactly one category.
func InferCategory(productName string) string {
	lower := strings.ToLower(productName)
	for _, rule := range categoryRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Category
			}
		}
	}
	return defaultCategory
}

// ProductMetrics is the per-product slice of an analytics report.
type ProductMetrics struct {
	ProductID         string  `json:"product_id"`
	Name              string  `json:"name"`
	Category          string  `json:"category"`
	TotalStock        int     `json:"total_stock"`
	MinStockThreshold int     `json:"min_stock_threshold"`
	Classification    string  `json:"classification"`
	ReorderAlert      bool    `json:"reorder_alert"`
	CostValue         float64 `json:"cost_value"`
	RetailValue       float64 `json:"retail_value"`
	PotentialProfit   float64 `json:"potential_profit"`
	ProfitMarginPct   float64 `json:"profit_margin_pct"`
}

// CategoryMetrics is one row of the category rollup. ABCClass partitions
// categories into three value tiers: the single highest-value category is
// class A, the next two are B, the remainder C.
type CategoryMetrics struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
	ABCClass   string  `json:"abc_class"`
}

// Report is one deterministic analytics snapshot. Equal inputs always
// produce equal reports.
type Report struct {
	TotalProducts    int                `json:"total_products"`
	TotalStock       int                `json:"total_stock"`
	TotalCostValue   float64            `json:"total_cost_value"`
	TotalRetailValue float64            `json:"total_retail_value"`
	PotentialProfit  float64            `json:"potential_profit"`
	ProfitMarginPct  float64            `json:"profit_margin_pct"`
	OutOfStockCount  int                `json:"out_of_stock_count"`
	LowStockCount    int                `json:"low_stock_count"`
	WellStockedCount int                `json:"well_stocked_count"`
	ReorderAlerts    []*ProductMetrics  `json:"reorder_alerts"`
	Products         []*ProductMetrics  `json:"products"`
	Categories       []*CategoryMetrics `json:"categories"`
	// TurnoverRatio is recent revenue over total cost value. Nil means not
	// applicable: either no sales figure was supplied or the cost basis is
	// zero.
	TurnoverRatio *float64 `json:"turnover_ratio,omitempty"`
}

// AnalyticsService computes inventory health, valuation, and profitability
// metrics from a product snapshot. All computation is pure; the service
// only adds the snapshot fetch and logging around BuildReport.
type AnalyticsService struct {
	products ProductStore
	logger   *logger.Logger
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(products ProductStore, log *logger.Logger) *AnalyticsService {
	return &AnalyticsService{
		products: products,
		logger:   log,
	}
}

// Refresh loads the current product snapshot and builds a report from it.
// recentRevenue feeds the turnover ratio; pass a negative value when no
// sales figure is available.
func (s *AnalyticsService) Refresh(ctx context.Context, recentRevenue float64) (*Report, error) {
	products, err := s.products.ListWithVariants(ctx)
	if err != nil {
		return nil, err
	}

	report := BuildReport(products, recentRevenue)

	s.logger.Info().
		Int("products", report.TotalProducts).
		Int("low_stock", report.LowStockCount).
		Int("out_of_stock", report.OutOfStockCount).
		Msg("analytics report built")

	return report, nil
}

// BuildReport computes a full report over the given snapshot. The snapshot
// is never modified. recentRevenue < 0 means no sales data.
func BuildReport(products []*repository.Product, recentRevenue float64) *Report {
	report := &Report{
		ReorderAlerts: []*ProductMetrics{},
		Products:      []*ProductMetrics{},
		Categories:    []*CategoryMetrics{},
	}

	byCategory := map[string]*CategoryMetrics{}
	categoryOrder := []string{}

	for _, p := range products {
		m := buildProductMetrics(p)
		report.Products = append(report.Products, m)

		report.TotalStock += m.TotalStock
		report.TotalCostValue += m.CostValue
		report.TotalRetailValue += m.RetailValue

		switch m.Classification {
		case StockOut:
			report.OutOfStockCount++
		case StockLow:
			report.LowStockCount++
		default:
			report.WellStockedCount++
		}
		if m.ReorderAlert {
			report.ReorderAlerts = append(report.ReorderAlerts, m)
		}

		cat, ok := byCategory[m.Category]
		if !ok {
			cat = &CategoryMetrics{Category: m.Category}
			byCategory[m.Category] = cat
			categoryOrder = append(categoryOrder, m.Category)
		}
		cat.Count++
		cat.Value += m.RetailValue
	}

	report.TotalProducts = len(report.Products)
	report.PotentialProfit = report.TotalRetailValue - report.TotalCostValue
	report.ProfitMarginPct = marginPct(report.PotentialProfit, report.TotalCostValue)

	for _, name := range categoryOrder {
		cat := byCategory[name]
		cat.Percentage = float64(cat.Count) / float64(report.TotalProducts) * 100
		report.Categories = append(report.Categories, cat)
	}

	// Stable descending sort keeps encounter order for equal values, so
	// the A/B/C partition is deterministic.
	sort.SliceStable(report.Categories, func(i, j int) bool {
		return report.Categories[i].Value > report.Categories[j].Value
	})
	for i, cat := range report.Categories {
		switch {
		case i == 0:
			cat.ABCClass = "A"
		case i <= 2:
			cat.ABCClass = "B"
		default:
			cat.ABCClass = "C"
		}
	}

	if recentRevenue >= 0 && report.TotalCostValue > 0 {
		ratio := recentRevenue / report.TotalCostValue
		report.TurnoverRatio = &ratio
	}

	return report
}

func buildProductMetrics(p *repository.Product) *ProductMetrics {
	m := &ProductMetrics{
		ProductID: p.ID,
		Name:      p.Name,
		Category:  InferCategory(p.Name),
	}

	for _, v := range p.Variants {
		m.TotalStock += v.Quantity
		m.CostValue += float64(v.Quantity) * v.CostPrice
		m.RetailValue += float64(v.Quantity) * effectiveSellingPrice(v)
	}

	m.MinStockThreshold = minStockThreshold(p)
	switch {
	case m.TotalStock <= 0:
		m.Classification = StockOut
	case m.TotalStock <= m.MinStockThreshold:
		m.Classification = StockLow
	default:
		m.Classification = StockWell
	}
	m.ReorderAlert = m.TotalStock > 0 && m.TotalStock <= m.MinStockThreshold

	m.PotentialProfit = m.RetailValue - m.CostValue
	m.ProfitMarginPct = marginPct(m.PotentialProfit, m.CostValue)

	return m
}

// minStockThreshold prefers the first variant's minimum, then the product
// level, then the default.
func minStockThreshold(p *repository.Product) int {
	if len(p.Variants) > 0 && p.Variants[0].MinQuantity != nil {
		return *p.Variants[0].MinQuantity
	}
	if p.MinStockLevel != nil {
		return *p.MinStockLevel
	}
	return defaultMinStockThreshold
}

// effectiveSellingPrice falls back to a 50% markup over cost when no
// selling price is set.
func effectiveSellingPrice(v *repository.ProductVariant) float64 {
	if v.SellingPrice > 0 {
		return v.SellingPrice
	}
	return v.CostPrice * defaultMarkup
}

func marginPct(profit, costValue float64) float64 {
	if costValue <= 0 {
		return 0
	}
	return profit / costValue * 100
}
