package local

import (
	"time"

	"github.com/sirtec-dev/portal-backend/internal/provider"
)

const sweepInterval = time.Minute

// sweepExpired deletes expired sessions and pushes a signed_out event for
// each, so provider-driven expiry reaches the application without polling.
func (p *Provider) sweepExpired() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			p.sweepOnce()
		}
	}
}

func (p *Provider) sweepOnce() {
	start := time.Now()

	var expired []Session
	if err := p.db.Where("expires_at < ?", start).Find(&expired).Error; err != nil {
		provider.LogError(p.Name(), "expiry sweep", err)
		return
	}
	if len(expired) == 0 {
		return
	}

	for _, session := range expired {
		if err := p.db.Delete(&Session{}, "session_id = ?", session.SessionID).Error; err != nil {
			provider.LogError(p.Name(), "expiry sweep delete", err)
			continue
		}
		p.emit(provider.Event{Type: provider.EventSignedOut, Token: session.SessionID, UserID: session.UserID})
	}

	provider.LogSweep(p.Name(), len(expired), time.Since(start))
}
