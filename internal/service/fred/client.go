// Package fred fetches economic series from the St. Louis Fed API.
package fred

import (
	"context"
	"fmt"
	"net/http"
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

const providerName = "fred"

// missingValue is how FRED marks an observation with no data.
const missingValue = "."

type Client struct {
	apiKey  string
	baseURL string
	http    *xhttp.Client
	metrics drepo.Metrics
}

func New(apiKey, baseURL string, hc *xhttp.Client, m drepo.Metrics) *Client {
	if m == nil {
		m = drepo.NopMetrics{}
	}
	return &Client{apiKey: apiKey, baseURL: strings.TrimRight(baseURL, "/"), http: hc, metrics: m}
}

type observationsResponse struct {
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// Observations returns the latest limit values of seriesID oldest first.
// units is a FRED transformation code such as lin or pc1; empty means lin.
func (c *Client) Observations(ctx context.Context, seriesID, units string, limit int) ([]models.ObservationPoint, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("fred: api key not configured")
	}
	if units == "" {
		units = "lin"
	}
	query := map[string][]string{
		"series_id":  {seriesID},
		"api_key":    {c.apiKey},
		"file_type":  {"json"},
		"units":      {units},
		"sort_order": {"desc"},
	}
	if limit > 0 {
		query["limit"] = []string{strconv.Itoa(limit)}
	}

	var resp observationsResponse
	err := c.http.GetJSON(ctx, c.baseURL+"/series/observations", query, &resp)
	c.metrics.RecordProviderRequest(providerName, xhttp.Outcome(err))
	if err != nil {
		// FRED answers 400 for a series id it does not know
		if xhttp.IsStatus(err, http.StatusBadRequest) || xhttp.IsStatus(err, http.StatusNotFound) {
			return nil, fmt.Errorf("fred %s: %w", seriesID, dservice.ErrNotFound)
		}
		return nil, fmt.Errorf("fred %s: %w", seriesID, err)
	}
	if resp.ErrorCode != 0 {
		return nil, fmt.Errorf("fred %s: %d %s", seriesID, resp.ErrorCode, resp.ErrorMessage)
	}

	points := make([]models.ObservationPoint, 0, len(resp.Observations))
	for _, o := range resp.Observations {
		if o.Value == missingValue {
			continue
		}
		date, ok := util.ParseTime(o.Date)
		if !ok {
			continue
		}
		v, err := decimal.NewFromString(o.Value)
		if err != nil {
			continue
		}
		points = append(points, models.ObservationPoint{Date: date, Value: v.InexactFloat64()})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("fred %s: %w", seriesID, dservice.ErrNoData)
	}
	return features.SortObservations(points), nil
}
