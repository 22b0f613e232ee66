package controllers

import (
	"sobriety/internal/format"
	"sobriety/internal/models"
	"sobriety/internal/structures"
	"time"
)

type addictionView struct {
	Name                  string          `json:"name"`
	Priority              string          `json:"priority"`
	LastRelapse           time.Time       `json:"last_relapse"`
	IsStopped             bool            `json:"is_stopped"`
	IsFuture              bool            `json:"is_future"`
	Abstinence            string          `json:"abstinence"`
	AverageRelapse        string          `json:"average_relapse"`
	AverageRelapseSeconds int64           `json:"average_relapse_seconds"`
	RecentRelapses        []*int64        `json:"recent_relapses"`
	TimeSaving            string          `json:"time_saving"`
	TimeSaved             string          `json:"time_saved"`
	Notes                 []noteView      `json:"notes"`
	Savings               []savingView    `json:"savings"`
	Milestones            []milestoneView `json:"milestones"`
}

type noteView struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

type savingView struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

type milestoneView struct {
	Count     int       `json:"count"`
	Unit      string    `json:"unit"`
	ReachedAt time.Time `json:"reached_at"`
	Completed bool      `json:"completed"`
}

// renderer turns records into their JSON views under the display preferences.
type renderer struct {
	formatter *format.Formatter
	display   structures.DisplayConfig
}

func newRenderer(display structures.DisplayConfig) *renderer {
	return &renderer{
		formatter: format.NewFormatter(display.Locale),
		display:   display,
	}
}

func (r *renderer) render(a *models.Addiction, now time.Time) addictionView {
	view := addictionView{
		Name:                  a.Name(),
		Priority:              a.Priority().String(),
		LastRelapse:           a.LastRelapse(),
		IsStopped:             a.IsStopped(),
		IsFuture:              a.IsFuture(),
		Abstinence:            r.formatter.Range(abstinenceBounds(a, now)),
		AverageRelapse:        r.formatter.Seconds(a.AverageRelapseDuration()),
		AverageRelapseSeconds: a.AverageRelapseDuration(),
		RecentRelapses:        a.Relapses().GetAll(),
		TimeSaving:            a.TimeSaving().String(),
		TimeSaved:             r.formatter.Seconds(timeSaved(a, now)),
		Notes:                 []noteView{},
		Savings:               []savingView{},
		Milestones:            []milestoneView{},
	}
	for _, n := range a.SortedNotes(models.SortOrder(r.display.SortNotes)) {
		view.Notes = append(view.Notes, noteView{Date: n.Date.String(), Text: n.Text})
	}
	a.Savings().Each(func(name string, s models.Saving) bool {
		view.Savings = append(view.Savings, savingView{Name: name, Amount: s.Amount, Unit: s.Unit})
		return true
	})
	order := models.SortOrder(r.display.SortMilestones)
	for _, m := range a.VisibleMilestones(order, r.display.HideCompletedMilestones, now) {
		view.Milestones = append(view.Milestones, milestoneView{
			Count:     m.Count,
			Unit:      m.Unit.String(),
			ReachedAt: m.ReachedAt(a.LastRelapse()),
			Completed: a.MilestoneCompleted(m, now),
		})
	}
	return view
}

func (r *renderer) renderAll(records []*models.Addiction, now time.Time) []addictionView {
	out := make([]addictionView, 0, len(records))
	for _, a := range records {
		out = append(out, r.render(a, now))
	}
	return out
}

// abstinenceBounds returns the interval shown as the current abstinence. A
// future quit date counts down from now, a stopped record ends when it stopped.
func abstinenceBounds(a *models.Addiction, now time.Time) (time.Time, time.Time) {
	switch {
	case a.IsFuture():
		return now, a.LastRelapse()
	case a.IsStopped():
		return a.LastRelapse(), time.UnixMilli(a.TimeStopped())
	default:
		return a.LastRelapse(), now
	}
}

// timeSaved multiplies the daily time saving by the whole days abstained.
func timeSaved(a *models.Addiction, now time.Time) int64 {
	start, end := abstinenceBounds(a, now)
	if a.IsFuture() || !end.After(start) {
		return 0
	}
	days := int64(end.Sub(start) / (24 * time.Hour))
	return days * int64(a.TimeSaving().Duration()/time.Second)
}
