package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"missioncontrol/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrSlugTaken   = errors.New("client slug already taken")
	ErrInvalidEnum = errors.New("stored value outside its enumeration")
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// notFound maps pgx.ErrNoRows to ErrNotFound and wraps everything else.
func notFound(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == uniqueViolation && (constraint == "" || pgErr.ConstraintName == constraint)
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}

// parentMissing maps a write under an unknown parent row to ErrNotFound.
// The pg error stays in the chain for the retry classifier.
func parentMissing(op string, err error) error {
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
	}
	return notFound(op, err)
}

func invalidEnum(column string, err error) error {
	return fmt.Errorf("%s: %w: %v", column, ErrInvalidEnum, err)
}

func dateOut(d pgtype.Date) *model.Date {
	if !d.Valid {
		return nil
	}
	v := model.NewDate(d.Time)
	return &v
}

func dateIn(d *model.Date) pgtype.Date {
	if d == nil || d.IsZero() {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: d.Time, Valid: true}
}

func timeOut(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func decodeQAChecks(raw []byte) (model.QAChecks, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var qa model.QAChecks
	if err := json.Unmarshal(raw, &qa); err != nil {
		return nil, fmt.Errorf("qa_checks: %w", err)
	}
	return qa, nil
}

func decodeMetadata(raw []byte) (map[string]any, error) {
	md := map[string]any{}
	if len(raw) == 0 {
		return md, nil
	}
	if err := json.Unmarshal(raw, &md); err != nil {
		return nil, fmt.Errorf("metadata: %w", err)
	}
	if md == nil {
		md = map[string]any{}
	}
	return md, nil
}
