// Package session implements the authentication session lifecycle for the
// platform: creation with per-user ceiling enforcement, cache-accelerated
// token validation, expiry-based refresh, token rotation, invalidation, and
// heuristic detection of suspicious login patterns.
//
// # Architecture
//
// A Manager orchestrates every operation against two capabilities: a
// Repository (durable, authoritative) and a Cache (best-effort accelerator,
// keyed by token, TTL-bounded). The Manager itself is stateless, so any
// number of instances can serve traffic over the same stores.
//
//	┌────────┐  bearer token  ┌──────────────┐
//	│ Client │ ─────────────► │  Middleware  │
//	└────────┘                └──────────────┘
//	                                 │ ValidateToken
//	                                 ▼
//	┌─────────────────────────────────────────┐
//	│                Manager                  │──► Detector (on Create)
//	└─────────────────────────────────────────┘
//	       │ authoritative          │ best-effort
//	       ▼                        ▼
//	┌────────────┐           ┌────────────┐
//	│ Repository │           │   Cache    │
//	│ (pg/memory)│           │  (redis)   │
//	└────────────┘           └────────────┘
//
// A session is usable iff it is active, unexpired and not flagged
// suspicious. That predicate is re-derived on every validation; the cache
// only shortens the path to the data it is derived from. Cache failures are
// logged and swallowed — degradation slows validation down, it never
// weakens it.
//
// # Usage
//
//	repo := session.NewPostgresRepository(pool)
//	manager := session.New(
//	    session.WithRepository(repo),
//	    session.WithCache(session.NewRedisCache(redisClient)),
//	    session.WithLogger(log),
//	)
//
//	// Login handler, after credentials were verified elsewhere:
//	sess, err := manager.Create(ctx, userID, session.MetadataFromRequest(r))
//
//	// Protect routes:
//	r.Use(manager.RequireSession)
//
//	// Scheduled sweep:
//	n, err := manager.CleanupExpired(ctx)
//
// # Concurrency
//
// No cross-call ordering is guaranteed beyond the repository's per-row
// update semantics. The ceiling check in Create is not atomic with the
// insert: concurrent logins for one user can transiently exceed the
// per-user maximum. That race is accepted and documented rather than
// locked away.
package session
