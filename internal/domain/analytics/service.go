package analytics

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Service runs the full pipeline: load raw rows, normalize, aggregate. It is
// stateless between calls; every invocation re-reads the source so the
// insights always reflect the file on disk.
type Service struct {
	source RecordSource
	norm   *Normalizer
	engine *Engine
	log    zerolog.Logger
}

func NewService(source RecordSource, log zerolog.Logger) *Service {
	return &Service{
		source: source,
		norm:   NewNormalizer(),
		engine: NewEngine(),
		log:    log,
	}
}

// Insights executes the pipeline end to end. The only error condition is an
// unavailable source; malformed rows and degenerate datasets degrade to
// fewer or emptier insights instead.
func (s *Service) Insights(ctx context.Context) ([]Insight, error) {
	rows, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	ds := s.norm.Normalize(rows)
	insights := s.engine.Run(ds)

	s.log.Debug().
		Int("rows", len(rows)).
		Int("records", len(ds.Records)).
		Int("insights", len(insights)).
		Bool("has_datetime", ds.HasDatetime).
		Bool("has_patient_id", ds.HasPatientID).
		Msg("insights computed")

	return insights, nil
}
