package memory

import (
	"context"
	"maps"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/sequence"
)

type sequenceRepository struct {
	s *Store
}

func NewSequenceRepository(s *Store) sequence.SequenceRepository {
	return &sequenceRepository{s: s}
}

func (r *sequenceRepository) Next(ctx context.Context, scope string) (int64, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	r.s.sequences[scope]++
	return r.s.sequences[scope], nil
}

func (r *sequenceRepository) All(ctx context.Context) (map[string]int64, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	return maps.Clone(r.s.sequences), nil
}

func (r *sequenceRepository) Set(ctx context.Context, scope string, value int64) error {
	unlock := r.s.lock(ctx)
	defer unlock()

	r.s.sequences[scope] = value
	return nil
}
