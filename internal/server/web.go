package server

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/jobgrid/jobgrid/internal/model"
	"github.com/jobgrid/jobgrid/internal/store"
)

// webPageSize bounds how many listings the public job-board page shows at once.
const webPageSize = 25

var webTmpl = template.Must(template.New("web").Parse(`
{{define "head"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.}} — JobGrid</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; color: #222; }
a { color: #1a6fb5; text-decoration: none; }
a:hover { text-decoration: underline; }
.job { border-bottom: 1px solid #ddd; padding: 1rem 0; }
.meta { color: #666; font-size: 0.9rem; }
.pager { margin: 1.5rem 0; }
form.filters input, form.filters select { margin-right: 0.5rem; }
pre.body { white-space: pre-wrap; font-family: inherit; }
</style>
</head>
<body>
<h1><a href="/">JobGrid</a></h1>
{{end}}

{{define "foot"}}</body>
</html>
{{end}}

{{define "list"}}{{template "head" "Jobs"}}
<form class="filters" method="get" action="/">
<input type="search" name="q" placeholder="Title, company, keywords" value="{{.Search}}">
<input type="text" name="location" placeholder="Location" value="{{.Location}}">
<button type="submit">Search</button>
</form>
<p class="meta">{{.Total}} open position{{if ne .Total 1}}s{{end}}</p>
{{range .Jobs}}
<div class="job">
<h2><a href="/jobs/{{.ID}}">{{.Title}}</a></h2>
<p class="meta">{{.Company}} · {{.Location}} · {{.Type}} · {{.Salary}}</p>
</div>
{{else}}
<p>No open positions match.</p>
{{end}}
<div class="pager">
{{if gt .Offset 0}}<a href="/?q={{.Search}}&location={{.Location}}&offset={{.PrevOffset}}">&laquo; Previous</a>{{end}}
{{if .HasMore}}<a href="/?q={{.Search}}&location={{.Location}}&offset={{.NextOffset}}">Next &raquo;</a>{{end}}
</div>
{{template "foot"}}{{end}}

{{define "detail"}}{{template "head" .Title}}
<h2>{{.Title}}</h2>
<p class="meta">{{.Company}} · {{.Location}} · {{.Type}} · {{.Salary}} · posted {{.CreatedAt.Format "2 Jan 2006"}}</p>
<h3>Description</h3>
<pre class="body">{{.Description}}</pre>
{{if .Requirements}}
<h3>Requirements</h3>
<pre class="body">{{.Requirements}}</pre>
{{end}}
<p class="meta">Apply with <code>POST /v1/jobs/{{.ID}}/applications</code> using your API token.</p>
{{template "foot"}}{{end}}
`))

type jobListPage struct {
	Jobs     []*model.Job
	Total    int
	Search   string
	Location string
	Offset   int
	HasMore  bool
}

func (p jobListPage) PrevOffset() int {
	if p.Offset < webPageSize {
		return 0
	}
	return p.Offset - webPageSize
}

func (p jobListPage) NextOffset() int {
	return p.Offset + webPageSize
}

// handleJobListPage handles GET /{$}: the public, server-rendered job board.
func (s *PortalServer) handleJobListPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset, _ := strconv.Atoi(q.Get("offset"))
	if offset < 0 {
		offset = 0
	}

	jobs, total, err := s.store.ListJobs(r.Context(), model.JobFilter{
		Search:      q.Get("q"),
		Location:    q.Get("location"),
		VisibleOnly: true,
		Limit:       webPageSize,
		Offset:      offset,
		Sort:        "-created_at",
	})
	if err != nil {
		http.Error(w, "something went wrong", http.StatusInternalServerError)
		return
	}

	s.renderPage(w, "list", jobListPage{
		Jobs:     jobs,
		Total:    total,
		Search:   q.Get("q"),
		Location: q.Get("location"),
		Offset:   offset,
		HasMore:  offset+len(jobs) < total,
	})
}

// handleJobDetailPage handles GET /jobs/{id}: the public listing page.
// Hidden listings 404 here regardless of who asks; owners use the API.
func (s *PortalServer) handleJobDetailPage(w http.ResponseWriter, r *http.Request) {
	job, err := s.store.GetJob(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "something went wrong", http.StatusInternalServerError)
		return
	}
	if !job.Visible() {
		http.NotFound(w, r)
		return
	}

	s.renderPage(w, "detail", job)
}

func (s *PortalServer) renderPage(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := webTmpl.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, "something went wrong", http.StatusInternalServerError)
	}
}
