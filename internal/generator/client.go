// Package generator is the client for the external positive-news generation
// service. Articles come back transient: no durable id, no engagement counts.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/brightfeed/brightfeed/internal/apperr"
	"github.com/brightfeed/brightfeed/internal/domain"
)

const defaultTimeout = 60 * time.Second

type ClientOption func(*Client)

type Client struct {
	base url.URL
	http *http.Client
}

func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	client := &Client{
		base: *base,
		http: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(client *Client) {
		client.http = httpClient
	}
}

type fetchRequest struct {
	Query    string `json:"query"`
	Category string `json:"category"`
}

type articlePayload struct {
	URL            string    `json:"url"`
	Title          string    `json:"title"`
	Summary        string    `json:"summary"`
	Source         string    `json:"source"`
	Date           time.Time `json:"date"`
	ImageURL       string    `json:"imageUrl"`
	SentimentScore float32   `json:"sentimentScore"`
}

type fetchResponse struct {
	Articles []articlePayload `json:"articles"`
}

// FetchPositiveNews asks the generator for fresh articles matching the query,
// scoped to a category label.
func (c *Client) FetchPositiveNews(ctx context.Context, query, label string) ([]domain.Article, error) {
	if query == "" {
		return nil, apperr.NewValidation("missing generator query")
	}

	req := fetchRequest{Query: query, Category: label}
	var resp fetchResponse
	if err := c.do(ctx, http.MethodPost, "/v1/positive-news", req, &resp); err != nil {
		return nil, err
	}

	articles := make([]domain.Article, 0, len(resp.Articles))
	for _, p := range resp.Articles {
		articles = append(articles, domain.Article{
			URL:            p.URL,
			Title:          p.Title,
			Summary:        p.Summary,
			Source:         p.Source,
			Date:           p.Date,
			Category:       label,
			ImageURL:       p.ImageURL,
			SentimentScore: p.SentimentScore,
		})
	}

	return articles, nil
}

func (c *Client) do(ctx context.Context, method, path string, reqData, respData any) error {
	reqDataBytes, err := json.Marshal(reqData)
	if err != nil {
		return err
	}

	reqURL := c.base.JoinPath(path)
	request, err := http.NewRequestWithContext(ctx, method, reqURL.String(), bytes.NewReader(reqDataBytes))
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(request)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, respData); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}
