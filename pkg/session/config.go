package session

import "time"

// Config holds all tunable lifecycle and detection parameters. It is injected
// into the Manager at construction so tests can run with compressed durations.
type Config struct {
	// SessionDuration is the absolute lifetime granted at creation and on
	// refresh/rotation (default: 24h)
	SessionDuration time.Duration `env:"SESSION_DURATION" envDefault:"24h"`

	// RefreshThreshold is how close to expiry a session must be before
	// Refresh extends it; outside the threshold Refresh is a no-op
	RefreshThreshold time.Duration `env:"SESSION_REFRESH_THRESHOLD" envDefault:"2h"`

	// MaxSessionsPerUser caps concurrent active sessions per user; the
	// oldest by last access are evicted to make room
	MaxSessionsPerUser int `env:"SESSION_MAX_PER_USER" envDefault:"10"`

	// CacheTTL bounds cache staleness. It is intentionally much shorter
	// than SessionDuration: the cache accelerates, the repository decides.
	CacheTTL time.Duration `env:"SESSION_CACHE_TTL" envDefault:"15m"`

	// TouchInterval throttles LastAccessedAt updates
	TouchInterval time.Duration `env:"SESSION_TOUCH_INTERVAL" envDefault:"5m"`

	// RecentWindow is the history horizon fed to the detector
	RecentWindow time.Duration `env:"SESSION_RECENT_WINDOW" envDefault:"24h"`

	// BurstWindow and BurstCount define the rapid-creation heuristic:
	// BurstCount or more prior sessions created within BurstWindow before
	// the new one trigger a flag
	BurstWindow time.Duration `env:"SESSION_BURST_WINDOW" envDefault:"5m"`
	BurstCount  int           `env:"SESSION_BURST_COUNT" envDefault:"3"`

	// IPChurnRatio and UAChurnRatio are the fractions of recent sessions
	// that must disagree with the new session's IP / user agent before the
	// corresponding flag fires (strictly greater than)
	IPChurnRatio float64 `env:"SESSION_IP_CHURN_RATIO" envDefault:"0.5"`
	UAChurnRatio float64 `env:"SESSION_UA_CHURN_RATIO" envDefault:"0.7"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		SessionDuration:    24 * time.Hour,
		RefreshThreshold:   2 * time.Hour,
		MaxSessionsPerUser: 10,
		CacheTTL:           15 * time.Minute,
		TouchInterval:      5 * time.Minute,
		RecentWindow:       24 * time.Hour,
		BurstWindow:        5 * time.Minute,
		BurstCount:         3,
		IPChurnRatio:       0.5,
		UAChurnRatio:       0.7,
	}
}
