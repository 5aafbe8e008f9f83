package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/allegrolike/storefront/internal/result"
)

// Admin analytics endpoints backing the dashboard charts.

type SalesPoint struct {
	Period     time.Time       `json:"period"`
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int             `json:"orderCount"`
}

type TrendPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type CategoryTrend struct {
	Category string       `json:"category"`
	Values   []TrendPoint `json:"values"`
}

func (c *Client) GetSalesData(ctx context.Context, periodType string) result.Result[[]SalesPoint] {
	q := url.Values{}
	q.Set("periodType", periodType)
	return doJSON[[]SalesPoint](c, ctx, http.MethodGet, "dashboard/sales", q, nil)
}

func (c *Client) GetCategoryTrends(ctx context.Context) result.Result[[]CategoryTrend] {
	return doJSON[[]CategoryTrend](c, ctx, http.MethodGet, "dashboard/category-trends", nil, nil)
}
