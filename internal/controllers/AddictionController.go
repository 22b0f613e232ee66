package controllers

import (
	"errors"
	"net/http"
	"sobriety/internal/models"
	"sobriety/internal/providers"
	"sobriety/internal/services"
	"sobriety/internal/storage"
	"sobriety/internal/structures"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type AddictionController struct {
	logger   providers.Logger
	service  services.AddictionServiceInterface
	cache    providers.CacheProviderInterface
	exporter *storage.Exporter
	renderer *renderer
	now      func() time.Time
}

func NewAddictionController(logger providers.Logger, service services.AddictionServiceInterface, cache providers.CacheProviderInterface, exporter *storage.Exporter, conf *structures.Config) *AddictionController {
	return &AddictionController{
		logger:   logger,
		service:  service,
		cache:    cache,
		exporter: exporter,
		renderer: newRenderer(conf.Display),
		now:      time.Now,
	}
}

type nameRequest struct {
	Name string `json:"name"`
}

type createRequest struct {
	Name        string     `json:"name"`
	LastRelapse *time.Time `json:"last_relapse"`
	Priority    string     `json:"priority"`
}

type priorityRequest struct {
	Name     string `json:"name"`
	Priority string `json:"priority"`
}

type timeSavingRequest struct {
	Name       string `json:"name"`
	TimeSaving string `json:"time_saving"`
}

type noteRequest struct {
	Name string `json:"name"`
	Date string `json:"date"`
	Text string `json:"text"`
}

type savingRequest struct {
	Name   string      `json:"name"`
	Saving string      `json:"saving"`
	Amount json.Number `json:"amount"`
	Unit   string      `json:"unit"`
}

type milestoneRequest struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Unit  string `json:"unit"`
}

func (ac *AddictionController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		ac.writeError(w, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ac *AddictionController) writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func (ac *AddictionController) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrDuplicateName):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrData):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		ac.logger.Errorf(providers.TypeApp, "Request failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// decodeBody reads a JSON request body of at most maxRequestBodySize bytes.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

// respondMutation drops every cached body before answering, even on failure,
// since a failed write still leaves the change applied in memory.
func (ac *AddictionController) respondMutation(w http.ResponseWriter, status int, a *models.Addiction, err error) {
	ac.cache.Clear()
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.writeJSON(w, status, ac.renderer.render(a, ac.now()))
}

func (ac *AddictionController) List(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "list", func() (any, error) {
		return ac.renderer.renderAll(ac.service.List(), ac.now()), nil
	})
}

func (ac *AddictionController) Get(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	ac.serveFromCacheOrCompute(w, "addiction:"+name, func() (any, error) {
		a, err := ac.service.Get(name)
		if err != nil {
			return nil, err
		}
		return ac.renderer.render(a, ac.now()), nil
	})
}

func (ac *AddictionController) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !decodeBody(w, r, &req) {
		return
	}
	priority := models.PriorityHigh
	if req.Priority != "" {
		p, err := models.ParsePriority(req.Priority)
		if err != nil {
			ac.writeError(w, err)
			return
		}
		priority = p
	}
	lastRelapse := ac.now()
	if req.LastRelapse != nil {
		lastRelapse = *req.LastRelapse
	}
	a, err := ac.service.Create(strings.TrimSpace(req.Name), lastRelapse, priority)
	ac.respondMutation(w, http.StatusCreated, a, err)
}

func (ac *AddictionController) Delete(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	err := ac.service.Delete(req.Name)
	ac.cache.Clear()
	if err != nil {
		ac.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *AddictionController) Stop(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	a, err := ac.service.Stop(req.Name)
	ac.respondMutation(w, http.StatusOK, a, err)
}

func (ac *AddictionController) Relapse(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	a, err := ac.service.Relapse(req.Name)
	ac.respondMutation(w, http.StatusOK, a, err)
}

func (ac *AddictionController) SetPriority(w http.ResponseWriter, r *http.Request) {
	var req priorityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := models.ParsePriority(req.Priority)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	a, err := ac.service.SetPriority(req.Name, p)
	ac.respondMutation(w, http.StatusOK, a, err)
}

func (ac *AddictionController) SetTimeSaving(w http.ResponseWriter, r *http.Request) {
	var req timeSavingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	t, err := models.ParseTimeOfDay(req.TimeSaving)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	a, err := ac.service.SetTimeSaving(req.Name, t)
	ac.respondMutation(w, http.StatusOK, a, err)
}

func (ac *AddictionController) PutNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	date, ok := parseDateOrToday(w, req.Date, ac.now())
	if !ok {
		return
	}
	a, err := ac.service.PutNote(req.Name, date, req.Text)
	ac.respondMutation(w, http.StatusOK, a, err)
}

func (ac *AddictionController) DeleteNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	a, err := ac.service.DeleteNote(req.Name, date)
	ac.respondMutation(w, http.StatusOK, a, err)
}

func (ac *AddictionController) PutSaving(w http.ResponseWriter, r *http.Request) {
	var req savingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	saving, err := models.ParseSaving(req.Amount.String(), req.Unit)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	a, err := ac.service.PutSaving(req.Name, req.Saving, saving)
	ac.respondMutation(w, http.StatusOK, a, err)
}

func (ac *AddictionController) DeleteSaving(w http.ResponseWriter, r *http.Request) {
	var req savingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	a, err := ac.service.DeleteSaving(req.Name, req.Saving)
	ac.respondMutation(w, http.StatusOK, a, err)
}

func (ac *AddictionController) AddMilestone(w http.ResponseWriter, r *http.Request) {
	var req milestoneRequest
	if !decodeBody(w, r, &req) {
		return
	}
	m, err := parseMilestone(req)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	a, err := ac.service.AddMilestone(req.Name, m)
	ac.respondMutation(w, http.StatusCreated, a, err)
}

func (ac *AddictionController) RemoveMilestone(w http.ResponseWriter, r *http.Request) {
	var req milestoneRequest
	if !decodeBody(w, r, &req) {
		return
	}
	m, err := parseMilestone(req)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	a, err := ac.service.RemoveMilestone(req.Name, m)
	ac.respondMutation(w, http.StatusOK, a, err)
}

// Export streams every record as the indented export document.
func (ac *AddictionController) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="sobriety-export.json"`)
	if err := ac.exporter.Export(ac.service.List(), w); err != nil {
		ac.logger.Errorf(providers.TypeApp, "Export failed: %s", err)
	}
}

func parseMilestone(req milestoneRequest) (models.Milestone, error) {
	unit, err := models.ParseTimeUnit(req.Unit)
	if err != nil {
		return models.Milestone{}, err
	}
	return models.NewMilestone(req.Count, unit)
}

// parseDateOrToday defaults a blank date to the local date of now.
func parseDateOrToday(w http.ResponseWriter, s string, now time.Time) (models.Date, bool) {
	if s == "" {
		return models.DateOf(now), true
	}
	d, err := models.ParseDate(s)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return models.Date{}, false
	}
	return d, true
}
