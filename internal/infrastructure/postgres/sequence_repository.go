package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo consecutivos por prefijo de documento sobre PostgreSQL.
// El UPDATE del upsert toma lock de fila, así dos ventas concurrentes no
// pueden obtener el mismo número.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa y devuelve el consecutivo del prefijo.
func (r *SequenceRepo) Next(prefix string) (int64, error) {
	query := `
		INSERT INTO document_sequences (prefix, last_value)
		VALUES ($1, 1)
		ON CONFLICT (prefix)
		DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value`
	var value int64
	if err := r.q.QueryRow(context.Background(), query, prefix).Scan(&value); err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", prefix, err)
	}
	return value, nil
}
