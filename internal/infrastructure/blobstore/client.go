package blobstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sony/gobreaker"

	"coffer_scanner/internal/domain"
	"coffer_scanner/internal/domain/entity"
	"coffer_scanner/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	listPageLimit     = 1000
	maxListPages      = 50
	breakerMaxFailure = 5
)

var errNotFound = errors.New("blob not found")

type Config struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	BreakerTimeout time.Duration
}

// Client — HTTP-клиент объектного хранилища. Все вызовы идут через один
// circuit breaker: при недоступности хранилища запуск падает быстро.
type Client struct {
	http    *resty.Client
	baseURL string
	breaker *gobreaker.CircuitBreaker
}

type Option func(*Client)

func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.SetTransport(rt)
	}
}

func New(cfg Config, opts ...Option) *Client {
	client := resty.New()
	client.SetTimeout(cfg.Timeout)
	client.SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	c := &Client{
		http:    client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "blobstore",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerMaxFailure
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger(context.Background()).Warn(
				"circuit breaker state changed",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type putResponse struct {
	URL      string `json:"url"`
	Pathname string `json:"pathname"`
}

type blobDTO struct {
	URL        string    `json:"url"`
	Pathname   string    `json:"pathname"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type listResponse struct {
	Blobs   []blobDTO `json:"blobs"`
	Cursor  string    `json:"cursor"`
	HasMore bool      `json:"hasMore"`
}

func (c *Client) Put(ctx context.Context, pathname string, content []byte) (string, error) {
	res, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.http.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetHeader("x-add-random-suffix", "0").
			SetBody(content).
			Put(c.objectURL(pathname))
		if err != nil {
			return nil, fmt.Errorf("resty.Put: %w", err)
		}
		if resp.IsError() {
			return nil, statusErr(resp)
		}

		var out putResponse
		if err = json.Unmarshal(resp.Body(), &out); err != nil {
			return nil, fmt.Errorf("json.Unmarshal: %w", err)
		}
		if out.URL == "" {
			out.URL = c.objectURL(pathname)
		}

		return out.URL, nil
	})
	if err != nil {
		return "", wrap(err, "failed to put blob")
	}

	return res.(string), nil //nolint:forcetypeassert
}

// List проходит по всем страницам курсора.
func (c *Client) List(ctx context.Context) ([]entity.SnapshotInfo, error) {
	var (
		infos  []entity.SnapshotInfo
		cursor string
	)

	for page := 0; page < maxListPages; page++ {
		res, err := c.breaker.Execute(func() (interface{}, error) {
			req := c.http.R().
				SetContext(ctx).
				SetQueryParam("limit", strconv.Itoa(listPageLimit))
			if cursor != "" {
				req.SetQueryParam("cursor", cursor)
			}

			resp, err := req.Get(c.baseURL)
			if err != nil {
				return nil, fmt.Errorf("resty.Get: %w", err)
			}
			if resp.IsError() {
				return nil, statusErr(resp)
			}

			var out listResponse
			if err = json.Unmarshal(resp.Body(), &out); err != nil {
				return nil, fmt.Errorf("json.Unmarshal: %w", err)
			}

			return out, nil
		})
		if err != nil {
			return nil, wrap(err, "failed to list blobs")
		}

		out := res.(listResponse) //nolint:forcetypeassert
		for _, b := range out.Blobs {
			infos = append(infos, entity.SnapshotInfo{
				Pathname:   b.Pathname,
				URL:        b.URL,
				UploadedAt: b.UploadedAt.UTC(),
				Size:       b.Size,
			})
		}

		if !out.HasMore || out.Cursor == "" || out.Cursor == cursor {
			break
		}
		cursor = out.Cursor
	}

	return infos, nil
}

func (c *Client) Get(ctx context.Context, objectURL string) ([]byte, error) {
	res, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.http.R().SetContext(ctx).Get(objectURL)
		if err != nil {
			return nil, fmt.Errorf("resty.Get: %w", err)
		}
		if resp.IsError() {
			return nil, statusErr(resp)
		}

		return resp.Body(), nil
	})
	if err != nil {
		return nil, wrap(err, "failed to get blob")
	}

	return res.([]byte), nil //nolint:forcetypeassert
}

func (c *Client) Delete(ctx context.Context, pathname string) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.http.R().SetContext(ctx).Delete(c.objectURL(pathname))
		if err != nil {
			return nil, fmt.Errorf("resty.Delete: %w", err)
		}
		if resp.IsError() {
			return nil, statusErr(resp)
		}

		return nil, nil //nolint:nilnil
	})
	if err != nil {
		return wrap(err, "failed to delete blob")
	}

	return nil
}

func (c *Client) State() string {
	return c.breaker.State().String()
}

func (c *Client) objectURL(pathname string) string {
	parts := strings.Split(pathname, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return c.baseURL + "/" + strings.Join(parts, "/")
}

func statusErr(resp *resty.Response) error {
	if resp.StatusCode() == http.StatusNotFound {
		return errNotFound
	}
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), strings.TrimSpace(string(resp.Body())))
}

func wrap(err error, message string) error {
	if errors.Is(err, errNotFound) {
		return domain.WrapError(err, errcodes.SnapshotNotFound, message)
	}
	return domain.WrapError(err, errcodes.SnapshotStoreFailed, message)
}
