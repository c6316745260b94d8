package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jobgrid/jobgrid/internal/model"
)

func TestIndexJob(t *testing.T) {
	var gotMethod, gotPath, gotContentType string
	var gotDoc map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&gotDoc); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	job := &model.Job{
		ID:          "jg-job1",
		Title:       "Backend Engineer",
		Company:     "Acme",
		Location:    "Berlin",
		Description: "Go services",
		Type:        model.JobTypeFullTime,
		Salary:      model.Salary50to70,
		CreatedAt:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := c.IndexJob(context.Background(), job); err != nil {
		t.Fatalf("IndexJob() error: %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Errorf("method = %q, want PUT", gotMethod)
	}
	if gotPath != "/jobs/_doc/jg-job1" {
		t.Errorf("path = %q", gotPath)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type = %q", gotContentType)
	}
	if gotDoc["title"] != "Backend Engineer" || gotDoc["job_type"] != "full_time" {
		t.Errorf("document = %v", gotDoc)
	}
	if gotDoc["salary_band"] != "50000-70000" {
		t.Errorf("salary_band = %v", gotDoc["salary_band"])
	}
}

func TestIndexJob_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "shard failure", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.IndexJob(context.Background(), &model.Job{ID: "jg-job1"})
	if err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestDeleteJob(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if err := c.DeleteJob(context.Background(), "jg-job1"); err != nil {
		t.Fatalf("DeleteJob() error: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/jobs/_doc/jg-job1" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
}

func TestDeleteJob_MissingDocumentIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if err := c.DeleteJob(context.Background(), "jg-never-indexed"); err != nil {
		t.Errorf("DeleteJob() on missing doc: %v", err)
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/_cluster/health" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"status":"yellow"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if err := c.Health(context.Background()); err != nil {
		t.Errorf("Health() error: %v", err)
	}
}

func TestNoopImplementsIndexer(t *testing.T) {
	var _ Indexer = Noop{}
	var _ Indexer = (*Client)(nil)
}
