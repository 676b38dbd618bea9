// Package reporting records errors that are swallowed at a component boundary.
package reporting

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kryos/employee-accounts/internal/pkg/metrics"
)

// LogReporter implements ports.ErrorReporter by logging through zerolog and
// counting the failure in Prometheus.
type LogReporter struct {
	log zerolog.Logger
}

func NewLogReporter(log zerolog.Logger) *LogReporter {
	return &LogReporter{log: log}
}

func (r *LogReporter) Report(_ context.Context, err error, op, referenceID string) {
	metrics.SwallowedErrorsTotal.WithLabelValues(op).Inc()
	r.log.Error().
		Err(err).
		Str("op", op).
		Str("reference_id", referenceID).
		Msg("error sending hash to kryos backend")
}
