package mmapsync

import "go.uber.org/zap"

// diagnostics wraps the injectable logger used for the two events spec'd
// as non-fatal but worth alerting on: a grace-period reader-count reset,
// and a write-lock conflict under SingleWriter.
type diagnostics struct {
	log *zap.Logger
}

func newDiagnostics(log *zap.Logger) diagnostics {
	if log == nil {
		log = zap.NewNop()
	}
	return diagnostics{log: log}
}

func (d diagnostics) readerCountReset(prefix string, slot int, grace string) {
	d.log.Warn("mmapsync: reset stale reader count after grace period",
		zap.String("prefix", prefix),
		zap.Int("slot", slot),
		zap.String("grace", grace),
	)
}

func (d diagnostics) writeLockConflict(prefix string) {
	d.log.Warn("mmapsync: write lock held by another producer",
		zap.String("prefix", prefix),
	)
}
