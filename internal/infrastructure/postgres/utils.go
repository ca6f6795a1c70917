package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/inventario-admin/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation verifica si un error es una violación de foreign key (23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503" // foreign_key_violation
	}
	return false
}

// constraintField devuelve el campo asociado al constraint violado (uq_users_email → email).
func constraintField(err error, fallback string) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.ConstraintName == "" {
		return fallback
	}
	name := pgErr.ConstraintName
	if i := strings.LastIndex(name, "_"); i >= 0 && i < len(name)-1 {
		return name[i+1:]
	}
	return fallback
}

// mapWriteErr traduce violaciones de integridad a errores de dominio.
func mapWriteErr(err error, fallbackField string) error {
	switch {
	case isUniqueViolation(err):
		return domain.NewConflict(constraintField(err, fallbackField))
	case isForeignKeyViolation(err):
		return domain.NewConflict(constraintField(err, fallbackField))
	}
	return nil
}

// notFound traduce pgx.ErrNoRows a domain.ErrNotFound.
func notFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
