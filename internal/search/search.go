// Package search talks to the portal's search service over its HTTP API.
// Only approved, active jobs are indexed; everything else is removed.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jobgrid/jobgrid/internal/model"
)

// Indexer keeps the search index in step with the job store.
type Indexer interface {
	// IndexJob creates or replaces the job's document.
	IndexJob(ctx context.Context, job *model.Job) error
	// DeleteJob removes the job's document. Deleting a job that was never
	// indexed is not an error.
	DeleteJob(ctx context.Context, id string) error
}

// Client is an Indexer backed by the search service's REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// document is the indexed shape of a job: the fields seekers search on.
type document struct {
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Type        string    `json:"job_type"`
	SalaryBand  string    `json:"salary_band,omitempty"`
	PostedAt    time.Time `json:"posted_at"`
}

func (c *Client) IndexJob(ctx context.Context, job *model.Job) error {
	doc := document{
		Title:       job.Title,
		Company:     job.Company,
		Location:    job.Location,
		Description: job.Description,
		Type:        string(job.Type),
		SalaryBand:  string(job.Salary),
		PostedAt:    job.CreatedAt,
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling job document: %w", err)
	}

	url := fmt.Sprintf("%s/jobs/_doc/%s", c.baseURL, job.ID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, false)
}

func (c *Client) DeleteJob(ctx context.Context, id string) error {
	url := fmt.Sprintf("%s/jobs/_doc/%s", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	return c.do(req, true)
}

// Health reports whether the search cluster answers its health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/_cluster/health", nil)
	if err != nil {
		return err
	}
	return c.do(req, false)
}

func (c *Client) do(req *http.Request, okMissing bool) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("search request %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if okMissing && resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("search request %s %s: status %d: %s",
			req.Method, req.URL.Path, resp.StatusCode, snippet)
	}
	return nil
}

// Noop is an Indexer that does nothing, for deployments without a search
// service.
type Noop struct{}

func (Noop) IndexJob(context.Context, *model.Job) error { return nil }

func (Noop) DeleteJob(context.Context, string) error { return nil }
