// Package twelvedata talks to the Twelve Data REST and WebSocket APIs.
package twelvedata

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"FinDash/internal/domain/models"
	drepo "FinDash/internal/domain/repository"
	dservice "FinDash/internal/domain/service"
	"FinDash/internal/services/features"
	xhttp "FinDash/pkg/http"
	"FinDash/pkg/util"
)

const providerName = "twelvedata"

// maxOutputSize is the largest page the time_series endpoint serves.
const maxOutputSize = 5000

// Client fetches daily bars from /time_series.
type Client struct {
	apiKey  string
	baseURL string
	http    *xhttp.Client
	metrics drepo.Metrics
}

// New creates a Twelve Data REST client. A nil metrics sink discards observations.
func New(apiKey, baseURL string, hc *xhttp.Client, m drepo.Metrics) *Client {
	if m == nil {
		m = drepo.NopMetrics{}
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		metrics: m,
	}
}

func (c *Client) Name() string { return providerName }

type tsValue struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
	Volume   string `json:"volume"`
}

type tsResponse struct {
	Status  string    `json:"status"`
	Code    int       `json:"code"`
	Message string    `json:"message"`
	Values  []tsValue `json:"values"`
}

// Bars returns up to n bars oldest first. Twelve Data answers newest first.
func (c *Client) Bars(ctx context.Context, symbol string, iv drepo.Interval, n int) ([]models.PriceBar, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("twelvedata: api key not configured")
	}
	if n <= 0 || n > maxOutputSize {
		n = maxOutputSize
	}

	var resp tsResponse
	err := c.http.GetJSON(ctx, c.baseURL+"/time_series", map[string][]string{
		"symbol":     {symbol},
		"interval":   {string(iv)},
		"outputsize": {strconv.Itoa(n)},
		"apikey":     {c.apiKey},
	}, &resp)
	if err != nil {
		c.metrics.RecordProviderRequest(providerName, xhttp.Outcome(err))
		return nil, fmt.Errorf("twelvedata time_series %s: %w", symbol, err)
	}
	if resp.Status == "error" {
		c.metrics.RecordProviderRequest(providerName, "error")
		if resp.Code == 404 || strings.Contains(strings.ToLower(resp.Message), "not found") {
			return nil, fmt.Errorf("twelvedata %s: %s: %w", symbol, resp.Message, dservice.ErrNotFound)
		}
		return nil, fmt.Errorf("twelvedata %s: code %d: %s", symbol, resp.Code, resp.Message)
	}

	bars := make([]models.PriceBar, 0, len(resp.Values))
	for _, v := range resp.Values {
		b, err := v.toBar()
		if err != nil {
			continue
		}
		bars = append(bars, b)
	}
	if len(bars) == 0 {
		c.metrics.RecordProviderRequest(providerName, "empty")
		return nil, fmt.Errorf("twelvedata %s: %w", symbol, dservice.ErrNoData)
	}
	c.metrics.RecordProviderRequest(providerName, "ok")
	return features.SortChronological(bars), nil
}

func (v tsValue) toBar() (models.PriceBar, error) {
	date, ok := util.ParseTime(v.Datetime)
	if !ok {
		return models.PriceBar{}, fmt.Errorf("bad datetime %q", v.Datetime)
	}
	var px [4]float64
	for i, s := range []string{v.Open, v.High, v.Low, v.Close} {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return models.PriceBar{}, fmt.Errorf("bad price %q: %w", s, err)
		}
		px[i] = d.InexactFloat64()
	}
	bar := models.PriceBar{Date: date, Open: px[0], High: px[1], Low: px[2], Close: px[3]}
	if vol, err := strconv.ParseInt(v.Volume, 10, 64); err == nil {
		bar.Volume = &vol
	}
	return bar, nil
}
