package auth

import (
	"fmt"
	"strings"
	"sync"
	"time"

	apperrors "github.com/mrlokans/bookshelf/internal/errors"
)

// LoginLimiter throttles failed logins per client IP and email using a
// fixed window followed by a lockout.
type LoginLimiter struct {
	mu              sync.Mutex
	attempts        map[string]*attemptRecord
	maxAttempts     int
	windowDuration  time.Duration
	lockoutDuration time.Duration
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	stopOnce        sync.Once
	now             func() time.Time
}

type attemptRecord struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

type LimiterConfig struct {
	MaxAttempts     int           // failures before lockout (default: 5)
	WindowDuration  time.Duration // default: 15m
	LockoutDuration time.Duration // default: 30m
	CleanupInterval time.Duration // default: 5m
}

func NewLoginLimiter(cfg LimiterConfig) *LoginLimiter {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.WindowDuration <= 0 {
		cfg.WindowDuration = 15 * time.Minute
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = 30 * time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}

	l := &LoginLimiter{
		attempts:        make(map[string]*attemptRecord),
		maxAttempts:     cfg.MaxAttempts,
		windowDuration:  cfg.WindowDuration,
		lockoutDuration: cfg.LockoutDuration,
		cleanupInterval: cfg.CleanupInterval,
		stopCleanup:     make(chan struct{}),
		now:             time.Now,
	}

	go l.cleanupLoop()

	return l
}

// Stop ends the background cleanup goroutine. It is safe to call more than once.
func (l *LoginLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopCleanup) })
}

func key(ip, email string) string {
	return ip + "|" + strings.ToLower(strings.TrimSpace(email))
}

// Check returns a RateLimited error while ip+email is locked out.
func (l *LoginLimiter) Check(ip, email string) error {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	record, ok := l.attempts[key(ip, email)]
	if !ok {
		return nil
	}

	if !record.lockedUntil.IsZero() && now.Before(record.lockedUntil) {
		return lockedOut(record.lockedUntil.Sub(now))
	}
	if now.Sub(record.firstAttempt) > l.windowDuration {
		return nil
	}
	if record.count < l.maxAttempts {
		return nil
	}
	return lockedOut(l.lockoutDuration)
}

// RecordFailure counts a failed login and reports whether it triggered a lockout.
func (l *LoginLimiter) RecordFailure(ip, email string) bool {
	k := key(ip, email)
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	record, ok := l.attempts[k]
	if !ok {
		record = &attemptRecord{firstAttempt: now}
		l.attempts[k] = record
	}

	if now.Sub(record.firstAttempt) > l.windowDuration {
		record.count = 0
		record.firstAttempt = now
		record.lockedUntil = time.Time{}
	}

	record.count++
	if record.count >= l.maxAttempts {
		record.lockedUntil = now.Add(l.lockoutDuration)
		return true
	}
	return false
}

// RecordSuccess forgets earlier failures for ip+email.
func (l *LoginLimiter) RecordSuccess(ip, email string) {
	l.mu.Lock()
	delete(l.attempts, key(ip, email))
	l.mu.Unlock()
}

func (l *LoginLimiter) cleanupLoop() {
	ticker := time.NewTicker(l.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stopCleanup:
			return
		}
	}
}

func (l *LoginLimiter) cleanup() {
	now := l.now()
	expiry := l.windowDuration + l.lockoutDuration

	l.mu.Lock()
	defer l.mu.Unlock()

	for k, record := range l.attempts {
		windowExpired := now.Sub(record.firstAttempt) > expiry
		lockoutExpired := record.lockedUntil.IsZero() || now.After(record.lockedUntil)
		if windowExpired && lockoutExpired {
			delete(l.attempts, k)
		}
	}
}

func lockedOut(retryAfter time.Duration) error {
	seconds := int(retryAfter.Round(time.Second) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return apperrors.RateLimited(fmt.Sprintf("too many login attempts, retry in %ds", seconds)).
		WithDetails(map[string]int{"retry_after_seconds": seconds})
}
