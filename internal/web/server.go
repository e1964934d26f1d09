// Package web serves a small read-only dashboard over the run artifact
// store: a list of runs and, for each, its stage history.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/swesmith-go/synthesis/internal/artifact"
)

//go:embed templates
var templateFS embed.FS

var funcMap = template.FuncMap{
	"badgeClass": func(status string) string {
		return "badge badge-" + strings.ReplaceAll(status, "_", "-")
	},
	"relTime": relTime,
}

// Server is the read-only web UI over a RunStore.
type Server struct {
	store *artifact.RunStore
	port  int

	dashboardTmpl *template.Template
	runTmpl       *template.Template
}

// NewServer creates a Server with parsed templates.
func NewServer(store *artifact.RunStore, port int) *Server {
	return &Server{
		store:         store,
		port:          port,
		dashboardTmpl: mustParseTmpl("base.html", "dashboard.html"),
		runTmpl:       mustParseTmpl("base.html", "run.html"),
	}
}

func mustParseTmpl(names ...string) *template.Template {
	patterns := make([]string, len(names))
	for i, n := range names {
		patterns[i] = "templates/" + n
	}
	return template.Must(template.New("").Funcs(funcMap).ParseFS(templateFS, patterns...))
}

// relTime formats an RFC3339 timestamp as a short relative duration,
// falling back to the raw string if it doesn't parse.
func relTime(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	d := time.Since(t).Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
	return fmt.Sprintf("%dd ago", int(d.Hours()/24))
}

// Start registers routes and starts listening.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleDashboard)
	mux.HandleFunc("/run/", s.handleRunDetail)

	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("smith UI: http://localhost%s", addr)
	return http.ListenAndServe(addr, mux)
}

type dashboardData struct {
	Runs []artifact.RunState
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	statusFilter := r.URL.Query().Get("status")
	runs, err := s.store.List(statusFilter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].UpdatedAt > runs[j].UpdatedAt })

	if err := s.dashboardTmpl.ExecuteTemplate(w, "base.html", dashboardData{Runs: runs}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type runDetailData struct {
	Run *artifact.RunState
}

func (s *Server) handleRunDetail(w http.ResponseWriter, r *http.Request) {
	runID := strings.TrimPrefix(r.URL.Path, "/run/")
	if runID == "" || strings.Contains(runID, "/") {
		http.NotFound(w, r)
		return
	}

	rs, err := s.store.Get(runID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	if err := s.runTmpl.ExecuteTemplate(w, "base.html", runDetailData{Run: rs}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
