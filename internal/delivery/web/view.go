package web

import (
	"strings"

	"job-tracker-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
	FlashInfo    FlashKind = "info"

	flashCookieName = "jt_flash"
)

// Flash is a one-shot message shown after a redirect.
type Flash struct {
	Kind    FlashKind
	Message string
}

func setFlash(c *gin.Context, kind FlashKind, message string) {
	c.SetCookie(flashCookieName, string(kind)+"|"+message, 60, "/", "", false, true)
}

// takeFlash reads and clears the pending flash message.
func takeFlash(c *gin.Context) *Flash {
	raw, err := c.Cookie(flashCookieName)
	if err != nil || raw == "" {
		return nil
	}
	c.SetCookie(flashCookieName, "", -1, "/", "", false, true)

	kind, message, ok := strings.Cut(raw, "|")
	if !ok || message == "" {
		return nil
	}
	switch FlashKind(kind) {
	case FlashSuccess, FlashError, FlashInfo:
		return &Flash{Kind: FlashKind(kind), Message: message}
	}
	return nil
}

type applicationView struct {
	ID          string
	CompanyName string
	JobTitle    string
	Recruiter   string
	JobURL      string
	Status      string
	AppliedDate string
	Notes       string
}

type statusCount struct {
	Status domain.ApplicationStatus
	Count  int
}

type dashboardView struct {
	Title        string
	User         Session
	CSRF         string
	Flash        *Flash
	Statuses     []domain.ApplicationStatus
	Applications []applicationView
	Counts       []statusCount
	Total        int
	// Untracked counts applications with no status set.
	Untracked int
}

func (v *dashboardView) fill(apps []domain.Application) {
	counts := make(map[domain.ApplicationStatus]int, len(v.Statuses))
	for _, app := range apps {
		view := applicationView{
			ID:          app.ApplicationID,
			CompanyName: deref(app.CompanyName),
			JobTitle:    deref(app.JobTitle),
			Recruiter:   deref(app.Recruiter),
			JobURL:      deref(app.JobURL),
			Notes:       deref(app.Notes),
		}
		if app.Status != nil {
			view.Status = app.Status.String()
			counts[*app.Status]++
		} else {
			v.Untracked++
		}
		if app.AppliedDate != nil {
			view.AppliedDate = app.AppliedDate.Time().Format("Jan 2, 2006")
		}
		v.Applications = append(v.Applications, view)
	}

	v.Total = len(apps)
	for _, status := range v.Statuses {
		v.Counts = append(v.Counts, statusCount{Status: status, Count: counts[status]})
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
