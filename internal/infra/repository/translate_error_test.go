package repository

import (
	"errors"
	"fmt"
	"testing"

	repo "catalog/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslateError(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "ux_categories_name_live"}
	assert.ErrorIs(t, translateError(fmt.Errorf("create: %w", dup)), repo.ErrDuplicateName)

	fk := &pgconn.PgError{Code: "23503"}
	assert.NotErrorIs(t, translateError(fk), repo.ErrDuplicateName)

	plain := errors.New("boom")
	assert.Equal(t, plain, translateError(plain))
}
