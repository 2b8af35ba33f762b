package upstream

import (
	"context"
	"fmt"
	"net/url"
)

const (
	mainNamespace = 0
	maxLinkPages  = 100
)

// WikiClient enumerates outbound links of wiki pages via the MediaWiki
// query API.
type WikiClient struct {
	fetcher *Fetcher
	apiURL  string
}

func NewWikiClient(fetcher *Fetcher, apiURL string) *WikiClient {
	return &WikiClient{
		fetcher: fetcher,
		apiURL:  apiURL,
	}
}

type linksResponse struct {
	Continue struct {
		PLContinue string `json:"plcontinue"`
	} `json:"continue"`
	Query struct {
		Pages map[string]struct {
			Links []struct {
				NS    int    `json:"ns"`
				Title string `json:"title"`
			} `json:"links"`
		} `json:"pages"`
	} `json:"query"`
}

// Links returns the titles of all main-namespace pages linked from title,
// following plcontinue until the last batch.
func (c *WikiClient) Links(ctx context.Context, title string) ([]string, error) {
	var (
		titles       []string
		continuation string
	)

	for page := 0; page < maxLinkPages; page++ {
		body, err := c.fetcher.Get(ctx, c.linksURL(title, continuation))
		if err != nil {
			return nil, fmt.Errorf("fetcher.Get: %w", err)
		}

		var resp linksResponse
		if err = json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("json.Unmarshal: %w", err)
		}

		for _, p := range resp.Query.Pages {
			for _, link := range p.Links {
				if link.NS == mainNamespace {
					titles = append(titles, link.Title)
				}
			}
		}

		next := resp.Continue.PLContinue
		if next == "" || next == continuation {
			return titles, nil
		}
		continuation = next
	}

	return titles, nil
}

func (c *WikiClient) linksURL(title, continuation string) string {
	q := url.Values{}
	q.Set("action", "query")
	q.Set("format", "json")
	q.Set("prop", "links")
	q.Set("pllimit", "max")
	q.Set("titles", title)
	if continuation != "" {
		q.Set("plcontinue", continuation)
	}

	return c.apiURL + "?" + q.Encode()
}
