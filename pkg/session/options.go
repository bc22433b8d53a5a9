package session

import "log/slog"

// Option is a functional option for configuring the Manager
type Option func(*Manager)

// WithRepository sets the durable session store
func WithRepository(repo Repository) Option {
	return func(m *Manager) {
		m.repo = repo
	}
}

// WithCache sets the best-effort read accelerator
func WithCache(cache Cache) Option {
	return func(m *Manager) {
		m.cache = cache
	}
}

// WithConfig sets custom lifecycle configuration
func WithConfig(cfg Config) Option {
	return func(m *Manager) {
		m.config = cfg
	}
}

// WithLogger sets the structured logger used for degraded-path warnings
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// WithDetector overrides the detector built from the configuration
func WithDetector(d *Detector) Option {
	return func(m *Manager) {
		m.detector = d
	}
}
