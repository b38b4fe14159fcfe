package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// parseNumeric reads a NUMERIC column selected as text. Going through text
// keeps every digit; pgtype.Numeric -> float64 would not.
func parseNumeric(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %q: %w", ErrMsgFailedToParseNumeric, s, err)
	}
	return d, nil
}

// isPgError reports whether err is a PostgreSQL error with the given SQLSTATE
func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
