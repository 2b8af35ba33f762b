package upstream

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"coffer_scanner/internal/domain/entity"
)

// PricesClient reads the bulk feeds of the real-time prices API.
type PricesClient struct {
	fetcher      *Fetcher
	baseURL      string
	volumeWindow string
}

func NewPricesClient(fetcher *Fetcher, baseURL, volumeWindow string) *PricesClient {
	if volumeWindow == "" {
		volumeWindow = "24h"
	}

	return &PricesClient{
		fetcher:      fetcher,
		baseURL:      strings.TrimRight(baseURL, "/"),
		volumeWindow: volumeWindow,
	}
}

type mappingDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Members  bool   `json:"members"`
	Limit    int    `json:"limit"`
	Value    int64  `json:"value"`
	LowAlch  int64  `json:"lowalch"`
	HighAlch int64  `json:"highalch"`
	Examine  string `json:"examine"`
	Icon     string `json:"icon"`
}

type latestDTO struct {
	High     *float64 `json:"high"`
	HighTime *int64   `json:"highTime"`
	Low      *float64 `json:"low"`
	LowTime  *int64   `json:"lowTime"`
}

type volumeDTO struct {
	AvgHighPrice    *float64 `json:"avgHighPrice"`
	HighPriceVolume int64    `json:"highPriceVolume"`
	AvgLowPrice     *float64 `json:"avgLowPrice"`
	LowPriceVolume  int64    `json:"lowPriceVolume"`
}

// FetchMapping accepts both a bare array and a data-wrapped array.
func (c *PricesClient) FetchMapping(ctx context.Context) ([]entity.Item, error) {
	raw, err := c.get(ctx, "/mapping")
	if err != nil {
		return nil, err
	}

	if json.Get(raw).ValueType() != jsoniter.ArrayValue {
		return nil, fmt.Errorf("upstream.FetchMapping: %w", ErrUnexpectedShape)
	}

	var dtos []mappingDTO
	if err = json.Unmarshal(raw, &dtos); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	items := make([]entity.Item, 0, len(dtos))
	for _, d := range dtos {
		if d.ID <= 0 || d.Name == "" {
			continue
		}

		items = append(items, entity.Item{
			ID:       d.ID,
			Name:     d.Name,
			Members:  d.Members,
			Limit:    d.Limit,
			Value:    d.Value,
			LowAlch:  d.LowAlch,
			HighAlch: d.HighAlch,
			Examine:  d.Examine,
			Icon:     d.Icon,
		})
	}

	return items, nil
}

func (c *PricesClient) FetchLatestPrices(ctx context.Context) (map[int64]entity.PricePoint, error) {
	raw, err := c.get(ctx, "/latest")
	if err != nil {
		return nil, err
	}

	var dtos map[string]latestDTO
	if err = decodeIDMap(raw, &dtos); err != nil {
		return nil, fmt.Errorf("upstream.FetchLatestPrices: %w", err)
	}

	out := make(map[int64]entity.PricePoint, len(dtos))
	for key, d := range dtos {
		id, ok := parseItemID(key)
		if !ok {
			continue
		}

		out[id] = entity.PricePoint{
			High:     deref(d.High),
			Low:      deref(d.Low),
			HighTime: unixTime(d.HighTime),
			LowTime:  unixTime(d.LowTime),
		}
	}

	return out, nil
}

func (c *PricesClient) FetchVolumes(ctx context.Context) (map[int64]entity.VolumePoint, error) {
	raw, err := c.get(ctx, "/"+c.volumeWindow)
	if err != nil {
		return nil, err
	}

	var dtos map[string]volumeDTO
	if err = decodeIDMap(raw, &dtos); err != nil {
		return nil, fmt.Errorf("upstream.FetchVolumes: %w", err)
	}

	out := make(map[int64]entity.VolumePoint, len(dtos))
	for key, d := range dtos {
		id, ok := parseItemID(key)
		if !ok {
			continue
		}

		out[id] = entity.VolumePoint{
			HighPriceVolume: d.HighPriceVolume,
			LowPriceVolume:  d.LowPriceVolume,
			AvgHighPrice:    deref(d.AvgHighPrice),
			AvgLowPrice:     deref(d.AvgLowPrice),
		}
	}

	return out, nil
}

func (c *PricesClient) get(ctx context.Context, path string) ([]byte, error) {
	body, err := c.fetcher.Get(ctx, c.baseURL+path)
	if err != nil {
		return nil, fmt.Errorf("fetcher.Get %s: %w", path, err)
	}

	raw, err := unwrapData(body)
	if err != nil {
		return nil, fmt.Errorf("unwrapData %s: %w", path, err)
	}

	return raw, nil
}

func decodeIDMap(raw []byte, dest any) error {
	if json.Get(raw).ValueType() != jsoniter.ObjectValue {
		return ErrUnexpectedShape
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	return nil
}

func parseItemID(key string) (int64, bool) {
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func unixTime(v *int64) time.Time {
	if v == nil || *v <= 0 {
		return time.Time{}
	}
	return time.Unix(*v, 0).UTC()
}
