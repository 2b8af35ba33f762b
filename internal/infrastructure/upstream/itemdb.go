package upstream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"coffer_scanner/internal/domain/value"
)

// ErrInvalidBody marks the throttled responses of the legacy catalogue: empty
// bodies, broken JSON or a document without item.current.price.
var ErrInvalidBody = errors.New("empty or invalid body")

// ItemDBClient reads official prices from the legacy catalogue, one item per
// request. Each call is a single attempt; pacing and retries belong to the
// caller.
type ItemDBClient struct {
	fetcher *Fetcher
	baseURL string
}

func NewItemDBClient(fetcher *Fetcher, baseURL string) *ItemDBClient {
	return &ItemDBClient{
		fetcher: fetcher,
		baseURL: baseURL,
	}
}

type itemDetailDTO struct {
	Item *struct {
		Current *struct {
			Price any `json:"price"`
		} `json:"current"`
	} `json:"item"`
}

func (c *ItemDBClient) FetchOfficialPrice(ctx context.Context, itemID int64) (int64, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return 0, fmt.Errorf("url.Parse: %w", err)
	}

	q := u.Query()
	q.Set("item", strconv.FormatInt(itemID, 10))
	u.RawQuery = q.Encode()

	body, err := c.fetcher.Get(ctx, u.String())
	if err != nil {
		return 0, fmt.Errorf("fetcher.Get: %w", err)
	}

	return parseItemDetail(body)
}

func parseItemDetail(body []byte) (int64, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return 0, ErrInvalidBody
	}

	var dto itemDetailDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return 0, fmt.Errorf("json.Unmarshal: %w: %w", ErrInvalidBody, err)
	}

	if dto.Item == nil || dto.Item.Current == nil || dto.Item.Current.Price == nil {
		return 0, ErrInvalidBody
	}

	price, err := value.ParsePriceValue(dto.Item.Current.Price)
	if err != nil {
		return 0, fmt.Errorf("value.ParsePriceValue: %w: %w", ErrInvalidBody, err)
	}

	// Под нагрузкой itemdb отвечает нулевой ценой; это повод повторить запрос.
	if price <= 0 {
		return 0, ErrInvalidBody
	}

	return price, nil
}
