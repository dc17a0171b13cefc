package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// NextCode reserves the next sequential code for a table whose primary key is
// a prefixed, zero-padded number (HD001, TT014, NV002). It must run inside
// the same transaction as the insert that uses the code: the current maximum
// row is locked so two concurrent creations cannot compute the same value.
func NextCode(ctx context.Context, q Querier, table, column, prefix string) (string, error) {
	// Ordering by length first keeps codes past the 3-digit boundary
	// (HD999 -> HD1000) sorted numerically.
	query := fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY length(%s) DESC, %s DESC LIMIT 1 FOR UPDATE",
		column, table, column, column,
	)

	var current string
	err := q.QueryRowContext(ctx, query).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return prefix + "001", nil
	}
	if err != nil {
		return "", fmt.Errorf("codegen: scan max %s.%s: %w", table, column, err)
	}

	next, err := Increment(current, prefix)
	if err != nil {
		return "", fmt.Errorf("codegen: %s.%s: %w", table, column, err)
	}
	return next, nil
}

// Increment computes the successor of a prefixed numeric code. The suffix is
// re-padded to 3 digits and widens naturally past 999.
func Increment(code, prefix string) (string, error) {
	suffix := strings.TrimPrefix(code, prefix)
	if suffix == code || suffix == "" {
		return "", fmt.Errorf("malformed code %q for prefix %q", code, prefix)
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return "", fmt.Errorf("malformed code %q for prefix %q", code, prefix)
	}
	return fmt.Sprintf("%s%03d", prefix, n+1), nil
}
