package summary

import (
	"time"

	"missioncontrol/internal/model"
)

const DefaultTTL = 30 * time.Minute

// Gate decides whether a project's cached summary can be served as is.
type Gate struct {
	TTL time.Duration
}

// Fresh is true when a non-empty summary was generated less than TTL before now.
func (g Gate) Fresh(p *model.Project, now time.Time) bool {
	if p == nil || p.AISummary == nil || *p.AISummary == "" || p.AISummaryAt == nil {
		return false
	}
	ttl := g.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return now.Sub(*p.AISummaryAt) < ttl
}
