// Package security implements the request security pipeline: rate
// limiting with escalating bans, IP and endpoint policy, input pattern
// rejection, request size limits, and security context construction.
package security

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	apperrors "github.com/globalbusinessadvisors/llm-config-manager/internal/errors"
)

// RateLimitConfig holds the tunables for the rate limiter stage.
type RateLimitConfig struct {
	AuthenticatedRPS   float64
	UnauthenticatedRPS float64
	Burst              int
	BanThreshold       int
	BanDuration        time.Duration
}

// ipEntry tracks one source IP's token bucket, violation count, and ban
// state. Guarded by its own mutex so the rate limiter's top-level map can
// stay a sync.Map of independently-locked entries rather than a single
// mutex shared across every IP.
type ipEntry struct {
	mu          sync.Mutex
	limiter     *rate.Limiter
	violations  int
	bannedUntil time.Time
	lastAccess  time.Time
}

// RateLimiter enforces two global token buckets (authenticated,
// unauthenticated) plus a per-IP bucket with escalating ban. It is keyed
// by source IP rather than authenticated client ID, since the security
// pipeline runs ahead of any per-client identity.
type RateLimiter struct {
	cfg             RateLimitConfig
	authenticated   *rate.Limiter
	unauthenticated *rate.Limiter
	perIP           sync.Map // map[string]*ipEntry
	logger          *slog.Logger
}

// NewRateLimiter builds a RateLimiter and starts its stale-entry reaper.
func NewRateLimiter(cfg RateLimitConfig, logger *slog.Logger) *RateLimiter {
	if logger == nil {
		logger = slog.Default()
	}
	rl := &RateLimiter{
		cfg:             cfg,
		authenticated:   rate.NewLimiter(rate.Limit(cfg.AuthenticatedRPS), cfg.Burst),
		unauthenticated: rate.NewLimiter(rate.Limit(cfg.UnauthenticatedRPS), cfg.Burst),
		logger:          logger,
	}
	go rl.cleanupStale(context.Background(), 5*time.Minute)
	return rl
}

// Allow evaluates the rate limit stage for one request. A banned IP is
// rejected outright without consuming any bucket. Otherwise the relevant
// global bucket and the per-IP bucket must both have tokens; either
// rejection counts as one violation toward the ban threshold.
func (rl *RateLimiter) Allow(ip string, authenticated bool) *apperrors.SecurityError {
	entry := rl.entryFor(ip)

	entry.mu.Lock()
	if !entry.bannedUntil.IsZero() && time.Now().Before(entry.bannedUntil) {
		entry.mu.Unlock()
		return apperrors.NewSecurityError(
			apperrors.SecurityKindBanned, apperrors.SeverityHigh,
			"Request rejected due to security policy",
			"ip banned until "+entry.bannedUntil.Format(time.RFC3339),
		)
	}
	if !entry.bannedUntil.IsZero() && !time.Now().Before(entry.bannedUntil) {
		entry.bannedUntil = time.Time{}
		entry.violations = 0
	}
	entry.lastAccess = time.Now()
	entry.mu.Unlock()

	global := rl.unauthenticated
	if authenticated {
		global = rl.authenticated
	}

	if global.Allow() && entry.limiter.Allow() {
		return nil
	}

	entry.mu.Lock()
	entry.violations++
	banned := entry.violations >= rl.cfg.BanThreshold
	if banned {
		entry.bannedUntil = time.Now().Add(rl.cfg.BanDuration)
	}
	entry.mu.Unlock()

	if banned {
		return apperrors.NewSecurityError(
			apperrors.SecurityKindBanned, apperrors.SeverityHigh,
			"Request rejected due to security policy",
			"ip banned after reaching violation threshold",
		)
	}
	return apperrors.NewSecurityError(
		apperrors.SecurityKindRateLimited, apperrors.SeverityMedium,
		"Request rejected due to security policy",
		"rate limit exceeded",
	)
}

// entryFor loads or creates the per-IP bucket entry.
func (rl *RateLimiter) entryFor(ip string) *ipEntry {
	if val, ok := rl.perIP.Load(ip); ok {
		return val.(*ipEntry)
	}
	entry := &ipEntry{
		limiter:    rate.NewLimiter(rate.Limit(rl.cfg.UnauthenticatedRPS), rl.cfg.Burst),
		lastAccess: time.Now(),
	}
	actual, _ := rl.perIP.LoadOrStore(ip, entry)
	return actual.(*ipEntry)
}

// Cleanup reaps per-IP entries that are both unbanned and idle. Exposed
// directly (in addition to the background reaper) so callers can trigger
// an on-demand sweep, e.g. from tests.
func (rl *RateLimiter) Cleanup() {
	threshold := time.Now().Add(-1 * time.Hour)
	rl.perIP.Range(func(key, value any) bool {
		entry := value.(*ipEntry)
		entry.mu.Lock()
		expired := entry.bannedUntil.IsZero() && entry.lastAccess.Before(threshold)
		entry.mu.Unlock()
		if expired {
			rl.perIP.Delete(key)
		}
		return true
	})
}

func (rl *RateLimiter) cleanupStale(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Cleanup()
		}
	}
}
