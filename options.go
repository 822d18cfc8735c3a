package mmapsync

import (
	"hash"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

// DefaultPollInterval is the producer's default sleep between checks of
// the next slot's reader count while waiting for it to drain, carried
// over from the reference implementation's 1-second constant.
const DefaultPollInterval = time.Second

// Option configures a Synchronizer at construction time.
type Option func(*options)

type options struct {
	lock         LockPolicy
	pollInterval time.Duration
	newHasher    func() hash.Hash64
	logger       *zap.Logger
}

func defaultOptions() options {
	return options{
		lock:         LockDisabled{},
		pollInterval: DefaultPollInterval,
		newHasher:    func() hash.Hash64 { return xxhash.New() },
	}
}

// WithLockPolicy selects the producer-exclusion strategy. Default is
// LockDisabled; pass &SingleWriter{} to enforce a single producer per
// prefix via an advisory flock.
func WithLockPolicy(p LockPolicy) Option {
	return func(o *options) { o.lock = p }
}

// WithPollInterval overrides how often acquireWriteSlot re-checks a
// draining reader count while waiting. Default is DefaultPollInterval.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) { o.pollInterval = d }
}

// WithHasher overrides the checksum function. Default is xxhash, a fast
// non-cryptographic 64-bit hash; only its low 24 bits end up in the
// published Version, so it is a corruption hint, not an authenticator.
func WithHasher(newHasher func() hash.Hash64) Option {
	return func(o *options) { o.newHasher = newHasher }
}

// WithLogger injects a *zap.Logger used to report grace-period reader
// resets and write-lock conflicts. Default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}
