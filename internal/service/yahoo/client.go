// Package yahoo reads the Yahoo Finance chart endpoint. It is the fallback bar source.
package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"FinDash/internal/domain/models"
	drepo "FinDash/internal/domain/repository"
	dservice "FinDash/internal/domain/service"
	"FinDash/internal/services/features"
	xhttp "FinDash/pkg/http"
	"FinDash/pkg/util"
)

const providerName = "yahoo"

type Client struct {
	baseURL string
	http    *xhttp.Client
	metrics drepo.Metrics
	now     func() time.Time
}

func New(baseURL string, hc *xhttp.Client, m drepo.Metrics) *Client {
	if m == nil {
		m = drepo.NopMetrics{}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc, metrics: m, now: time.Now}
}

func (c *Client) Name() string { return providerName }

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Bars returns the latest n bars oldest first. Rows with a null close are skipped.
func (c *Client) Bars(ctx context.Context, symbol string, iv drepo.Interval, n int) ([]models.PriceBar, error) {
	now := c.now()
	query := map[string][]string{
		"interval": {yahooInterval(iv)},
		"period1":  {strconv.FormatInt(now.Add(-lookback(iv, n)).Unix(), 10)},
		"period2":  {strconv.FormatInt(now.Unix(), 10)},
	}

	var resp chartResponse
	err := c.http.GetJSON(ctx, c.baseURL+"/v8/finance/chart/"+url.PathEscape(symbol), query, &resp)
	c.metrics.RecordProviderRequest(providerName, xhttp.Outcome(err))
	if err != nil {
		if xhttp.IsStatus(err, http.StatusNotFound) {
			return nil, fmt.Errorf("yahoo chart %s: %w", symbol, dservice.ErrNotFound)
		}
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}
	if e := resp.Chart.Error; e != nil {
		if e.Code == "Not Found" {
			return nil, fmt.Errorf("yahoo chart %s: %s: %w", symbol, e.Description, dservice.ErrNotFound)
		}
		return nil, fmt.Errorf("yahoo chart %s: %s: %s", symbol, e.Code, e.Description)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, dservice.ErrNoData)
	}

	r := resp.Chart.Result[0]
	q := r.Indicators.Quote[0]
	bars := make([]models.PriceBar, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		closePx := at(q.Close, i)
		if closePx == nil {
			continue
		}
		bar := models.PriceBar{
			Date:  util.Day(time.Unix(ts, 0)),
			Open:  orElse(at(q.Open, i), *closePx),
			High:  orElse(at(q.High, i), *closePx),
			Low:   orElse(at(q.Low, i), *closePx),
			Close: *closePx,
		}
		if i < len(q.Volume) && q.Volume[i] != nil {
			v := *q.Volume[i]
			bar.Volume = &v
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, dservice.ErrNoData)
	}
	return features.Latest(features.SortChronological(bars), n), nil
}

func at(xs []*float64, i int) *float64 {
	if i < len(xs) {
		return xs[i]
	}
	return nil
}

func orElse(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func yahooInterval(iv drepo.Interval) string {
	switch iv {
	case drepo.IntervalWeekly:
		return "1wk"
	case drepo.IntervalMonthly:
		return "1mo"
	default:
		return "1d"
	}
}

// lookback converts a bar count into a calendar span with room for weekends and holidays.
func lookback(iv drepo.Interval, n int) time.Duration {
	day := 24 * time.Hour
	switch iv {
	case drepo.IntervalWeekly:
		return time.Duration(n+2) * 7 * day
	case drepo.IntervalMonthly:
		return time.Duration(n+1) * 31 * day
	default:
		return time.Duration(n*7/5+10) * day
	}
}
