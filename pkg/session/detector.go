package session

import "time"

// Reason strings persisted with flagged sessions. They are surfaced verbatim
// in review tooling, so keep them human-readable.
const (
	ReasonRapidCreation      = "Rapid session creation"
	ReasonMultipleIPs        = "Multiple IP addresses"
	ReasonMultipleUserAgents = "Multiple user agents"
)

// maxRecentHistory caps how many prior sessions the detector considers.
const maxRecentHistory = 5

// Detector flags abnormal session-creation patterns: bursts of logins,
// logins hopping across IP addresses, and logins hopping across user agents.
// The heuristics are deliberately cheap and explainable; they tolerate false
// positives and trade recall for auditability. Each fired heuristic
// contributes a reason string, and reasons are OR'd rather than scored.
type Detector struct {
	burstWindow  time.Duration
	burstCount   int
	ipChurnRatio float64
	uaChurnRatio float64
}

// NewDetector builds a detector from the lifecycle configuration.
func NewDetector(cfg Config) *Detector {
	return &Detector{
		burstWindow:  cfg.BurstWindow,
		burstCount:   cfg.BurstCount,
		ipChurnRatio: cfg.IPChurnRatio,
		uaChurnRatio: cfg.UAChurnRatio,
	}
}

// Evaluate inspects a newly created session against the user's most recent
// prior sessions (newest first, the new session excluded, at most
// maxRecentHistory entries). It is a pure function: evaluation happens once,
// at creation time, and older sessions are never re-scored retroactively.
func (d *Detector) Evaluate(newSession *Session, recent []*Session) []string {
	if newSession == nil || len(recent) == 0 {
		return nil
	}
	if len(recent) > maxRecentHistory {
		recent = recent[:maxRecentHistory]
	}

	var reasons []string

	if d.burstCount > 0 {
		windowStart := newSession.CreatedAt.Add(-d.burstWindow)
		burst := 0
		for _, s := range recent {
			if !s.CreatedAt.Before(windowStart) && !s.CreatedAt.After(newSession.CreatedAt) {
				burst++
			}
		}
		if burst >= d.burstCount {
			reasons = append(reasons, ReasonRapidCreation)
		}
	}

	total := float64(len(recent))

	foreignIPs := 0
	for _, s := range recent {
		if s.IPAddress != "" && s.IPAddress != newSession.IPAddress {
			foreignIPs++
		}
	}
	if float64(foreignIPs) > d.ipChurnRatio*total {
		reasons = append(reasons, ReasonMultipleIPs)
	}

	foreignUAs := 0
	for _, s := range recent {
		if s.UserAgent != "" && s.UserAgent != newSession.UserAgent {
			foreignUAs++
		}
	}
	if float64(foreignUAs) > d.uaChurnRatio*total {
		reasons = append(reasons, ReasonMultipleUserAgents)
	}

	return reasons
}
