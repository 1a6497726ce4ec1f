package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsForeignKeyViolation(t *testing.T) {
	fk := fmt.Errorf("delete supplier: %w", &pgconn.PgError{Code: "23503"})
	assert.True(t, isForeignKeyViolation(fk))
	assert.False(t, isForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isForeignKeyViolation(errors.New("23503")))
}

func TestPageArgs_RecortaAlMaximo(t *testing.T) {
	limit, offset := pageArgs(10000, 0)
	assert.Equal(t, 500, limit)
	assert.Zero(t, offset)
}
