package fcc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/yanqian/gdp-chart/internal/domain/gdpchart"
)

const defaultSourceURL = "https://raw.githubusercontent.com/freeCodeCamp/ProjectReferenceData/master/GDP-data.json"

// Client fetches the freeCodeCamp GDP reference dataset.
type Client struct {
	sourceURL  string
	httpClient *http.Client
}

// NewClient builds a loader for a fixed dataset URL. A zero timeout leaves the request
// bounded only by the caller's context.
func NewClient(sourceURL string, timeout time.Duration) *Client {
	url := strings.TrimSpace(sourceURL)
	if url == "" {
		url = defaultSourceURL
	}
	return &Client{
		sourceURL: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Load performs a single GET and decodes the dataset envelope.
func (c *Client) Load(ctx context.Context) (gdpchart.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.sourceURL, nil)
	if err != nil {
		return gdpchart.Dataset{}, fmt.Errorf("build gdp request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gdpchart.Dataset{}, fmt.Errorf("gdp request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return gdpchart.Dataset{}, fmt.Errorf("gdp request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gdpchart.Dataset{}, fmt.Errorf("read gdp response: %w", err)
	}

	raw, err := decodeEnvelope(body)
	if err != nil {
		return gdpchart.Dataset{}, fmt.Errorf("decode gdp response: %w", err)
	}
	return raw.toDataset(), nil
}

type apiResponse struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	SourceName  string  `json:"source_name"`
	DisplayURL  string  `json:"display_url"`
	FromDate    string  `json:"from_date"`
	ToDate      string  `json:"to_date"`
	Data        *[]pair `json:"data"`
}

// pair is one ["YYYY-MM-DD", number] element of the data array.
type pair struct {
	Date  string
	Value json.Number
	value float64
}

var errMissingData = errors.New(`response has no "data" array`)

func decodeEnvelope(body []byte) (apiResponse, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var raw apiResponse
	if err := dec.Decode(&raw); err != nil {
		return apiResponse{}, err
	}
	if raw.Data == nil {
		return apiResponse{}, errMissingData
	}
	return raw, nil
}

func (p *pair) UnmarshalJSON(data []byte) error {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("record must be an array: %w", err)
	}
	if len(fields) < 2 {
		return fmt.Errorf("record must hold a date and a value, got %d fields", len(fields))
	}
	if err := json.Unmarshal(fields[0], &p.Date); err != nil {
		return fmt.Errorf("record date must be a string: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(fields[1]))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return fmt.Errorf("record value: %w", err)
	}
	num, ok := value.(json.Number)
	if !ok {
		return fmt.Errorf("record value must be a number, got %s", string(fields[1]))
	}
	f, err := num.Float64()
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return fmt.Errorf("record value %s is not a finite number", num.String())
	}
	p.Value = num
	p.value = f
	return nil
}

func (r apiResponse) toDataset() gdpchart.Dataset {
	records := make([]gdpchart.RawRecord, 0, len(*r.Data))
	for _, p := range *r.Data {
		records = append(records, gdpchart.RawRecord{
			Date:      p.Date,
			Value:     p.value,
			ValueText: p.Value.String(),
		})
	}
	return gdpchart.Dataset{
		Name:        strings.TrimSpace(r.Name),
		Description: strings.TrimSpace(r.Description),
		SourceName:  strings.TrimSpace(r.SourceName),
		DisplayURL:  strings.TrimSpace(r.DisplayURL),
		FromDate:    r.FromDate,
		ToDate:      r.ToDate,
		Records:     records,
	}
}

var _ gdpchart.DatasetLoader = (*Client)(nil)
