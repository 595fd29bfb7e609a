package chi

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/segscope/internal/domain"
	"github.com/kailas-cloud/segscope/internal/domain/search/action"
	"github.com/kailas-cloud/segscope/internal/domain/search/request"
	domusage "github.com/kailas-cloud/segscope/internal/domain/usage"
	logpkg "github.com/kailas-cloud/segscope/internal/logger"
	healthuc "github.com/kailas-cloud/segscope/internal/usecase/health"
	searchuc "github.com/kailas-cloud/segscope/internal/usecase/search"
	usageuc "github.com/kailas-cloud/segscope/internal/usecase/usage"
)

//go:embed templates/*.html
var templateFS embed.FS

// FormValues are the search form fields, named as the backend names them.
type FormValues struct {
	Action    string
	Query     string
	K         int
	Threshold float64
	Max       int
}

// FormFromRequest fills the form from validated parameters.
func FormFromRequest(r request.Request) FormValues {
	return FormValues{
		Action:    string(r.Action()),
		Query:     r.Query(),
		K:         r.AtLeast(),
		Threshold: r.Threshold(),
		Max:       r.AtMost(),
	}
}

type pageData struct {
	Snap    searchuc.Snapshot
	Form    FormValues
	Actions []action.Action
	Notice  string
	Usage   domusage.Report
}

// statusMapping maps a domain sentinel to an HTTP status.
type statusMapping struct {
	err    error
	status int
}

var statusMappings = []statusMapping{
	{domain.ErrInvalidQuery, http.StatusBadRequest},
	{domain.ErrSearchInProgress, http.StatusConflict},
}

// Server renders the search page and handles its form posts.
type Server struct {
	search   *searchuc.Service
	usage    *usageuc.Service
	health   *healthuc.Service
	logger   *zap.Logger
	tmpl     *template.Template
	defaults FormValues
}

// NewServer creates the UI server. defaults prefill the form before the first search.
func NewServer(
	search *searchuc.Service,
	usage *usageuc.Service,
	health *healthuc.Service,
	defaults FormValues,
	logger *zap.Logger,
) (*Server, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err //nolint:wrapcheck // template errors are self-describing
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		search:   search,
		usage:    usage,
		health:   health,
		logger:   logger,
		tmpl:     tmpl,
		defaults: defaults,
	}, nil
}

// Routes registers the UI routes on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.Index)
	r.Post("/search", s.Search)
	r.Post("/results/expand", s.ExpandAll)
	r.Post("/results/collapse", s.CollapseAll)
	r.Post("/results/{index}/toggle", s.Toggle)
	r.Get("/usage", s.GetUsage)
	r.Get("/healthz", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// Index handles GET /.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, nil, "")
}

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	form, err := s.bindForm(r)
	if err != nil {
		s.render(w, r, http.StatusBadRequest, &form, err.Error())
		return
	}

	req, err := request.New(action.Action(form.Action), form.Query, form.K, form.Threshold, form.Max)
	if err != nil {
		s.render(w, r, statusFor(err), &form, err.Error())
		return
	}

	err = s.search.Submit(r.Context(), req)
	if errors.Is(err, domain.ErrSearchInProgress) {
		s.render(w, r, statusFor(err), &form, "A search is already running.")
		return
	}
	// Backend failures are recorded in the session and shown on the page.

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ExpandAll handles POST /results/expand.
func (s *Server) ExpandAll(w http.ResponseWriter, r *http.Request) {
	s.search.ExpandAll()
	http.Redirect(w, r, "/#results", http.StatusSeeOther)
}

// CollapseAll handles POST /results/collapse.
func (s *Server) CollapseAll(w http.ResponseWriter, r *http.Request) {
	s.search.CollapseAll()
	http.Redirect(w, r, "/#results", http.StatusSeeOther)
}

// Toggle handles POST /results/{index}/toggle.
func (s *Server) Toggle(w http.ResponseWriter, r *http.Request) {
	var idx int
	err := runtime.BindStyledParameterWithOptions("simple", "index", chi.URLParam(r, "index"), &idx,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false})
	if err != nil {
		http.Error(w, "invalid result index", http.StatusBadRequest)
		return
	}
	if !s.search.Toggle(idx) {
		http.Error(w, "no such result", http.StatusNotFound)
		return
	}
	http.Redirect(w, r, "/#result-"+chi.URLParam(r, "index"), http.StatusSeeOther)
}

type usageResponse struct {
	Period       string     `json:"period"`
	PeriodStart  *time.Time `json:"period_start,omitempty"`
	PeriodEnd    *time.Time `json:"period_end,omitempty"`
	Searches     int        `json:"searches"`
	PromptTokens int        `json:"prompt_tokens"`
	AnswerTokens int        `json:"answer_tokens"`
	CostCents    float64    `json:"cost_cents"`
}

// GetUsage handles GET /usage?period=day|total.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	var raw string
	if err := runtime.BindQueryParameter("form", true, false, "period", r.URL.Query(), &raw); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid period"})
		return
	}
	period, err := domusage.ParsePeriod(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	report := s.usage.GetReport(period)
	tally := report.Tally()
	resp := usageResponse{
		Period:       string(report.Period()),
		Searches:     tally.Searches(),
		PromptTokens: tally.PromptTokens(),
		AnswerTokens: tally.AnswerTokens(),
		CostCents:    tally.Cost(),
	}
	if start := report.PeriodStart(); !start.IsZero() {
		end := report.PeriodEnd()
		resp.PeriodStart = &start
		resp.PeriodEnd = &end
	}
	writeJSON(w, http.StatusOK, resp)
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{Status: string(report.Status), Checks: checks})
}

// bindForm reads the search form. On error the partially bound form is returned
// so the page can be re-rendered with what the user typed.
func (s *Server) bindForm(r *http.Request) (FormValues, error) {
	form := FormValues{}
	if err := r.ParseForm(); err != nil {
		return form, errors.New("unreadable form")
	}

	form.Action = r.PostForm.Get("action")
	form.Query = r.PostForm.Get("query")

	if err := runtime.BindQueryParameter("form", true, true, "k", r.PostForm, &form.K); err != nil {
		return form, errors.New("at least must be a whole number")
	}
	if err := runtime.BindQueryParameter("form", true, true, "threshold", r.PostForm, &form.Threshold); err != nil {
		return form, errors.New("threshold must be a number")
	}
	if err := runtime.BindQueryParameter("form", true, true, "max", r.PostForm, &form.Max); err != nil {
		return form, errors.New("at most must be a whole number")
	}
	return form, nil
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, form *FormValues, notice string) {
	snap := s.search.Snapshot()

	data := pageData{
		Snap:    snap,
		Actions: []action.Action{action.Search, action.RAG},
		Notice:  notice,
		Usage:   s.usage.GetReport(domusage.PeriodTotal),
	}
	switch {
	case form != nil:
		data.Form = *form
	case snap.Request.Query() != "":
		data.Form = FormFromRequest(snap.Request)
	default:
		data.Form = s.defaults
	}

	var buf strings.Builder
	if err := s.tmpl.ExecuteTemplate(&buf, "index.html", &data); err != nil {
		logpkg.FromContextOr(r.Context(), s.logger).Error("render page", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(buf.String()))
}

func statusFor(err error) int {
	for _, m := range statusMappings {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
