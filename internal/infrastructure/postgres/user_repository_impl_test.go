package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/apperror"
)

func TestTranslate(t *testing.T) {
	other := errors.New("conn reset")
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"no rows", pgx.ErrNoRows, apperror.ErrUserNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), apperror.ErrUserNotFound},
		{"unique violation", &pgconn.PgError{Code: uniqueViolation, ConstraintName: "users_email_key"}, apperror.ErrDuplicateEmail},
		{"other pg error", &pgconn.PgError{Code: "23503"}, nil},
		{"passthrough", other, other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.in)
			if tt.want == nil {
				if errors.Is(got, apperror.ErrDuplicateEmail) || errors.Is(got, apperror.ErrUserNotFound) {
					t.Fatalf("unexpected classification %v", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Fatalf("translate(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
