package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/harborcrest/authgate/internal/identity/domain"
)

type revokedTokensRepo struct {
	db *sql.DB
}

// Revoke inserts the fingerprint. The primary key plus OR IGNORE makes the
// operation idempotent and gives per-key sequential consistency: once the
// insert commits, every subsequent IsRevoked sees it.
func (r *revokedTokensRepo) Revoke(ctx context.Context, t domain.RevokedToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO revoked_tokens (fingerprint, revoked_at, expires_at) VALUES (?, ?, ?)`,
		t.Fingerprint, t.RevokedAt.UTC(), t.ExpiresAt.UTC(),
	)
	return err
}

func (r *revokedTokensRepo) IsRevoked(ctx context.Context, fingerprint string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM revoked_tokens WHERE fingerprint = ?`, fingerprint,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *revokedTokensRepo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE expires_at <= ?`, now.UTC(),
	)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
