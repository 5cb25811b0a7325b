package twofactor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/secyourflow/authkit/pkg/recovery"
)

// PostgresStore implements UserStore on a pgx connection pool. Recovery-code
// hashes live in a jsonb column; reads coerce whatever is stored down to
// well-formed hash strings rather than trusting the column shape.
//
// Visibility contract: a committed UPDATE is immediately seen by the next
// SELECT, which is what replay detection across concurrent challenges needs.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store backed by the given pool. The users table
// schema is provided by the migrations under pkg/pg/migrations.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const userColumns = `id, email, totp_enabled, totp_secret_enc, totp_verified_at, totp_recovery_codes_hash, totp_last_used_step`

func (ps *PostgresStore) GetByID(ctx context.Context, userID string) (*User, error) {
	row := ps.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	return scanUser(row)
}

func (ps *PostgresStore) UpdateByID(ctx context.Context, userID string, update Update) (*User, error) {
	assignments := make([]string, 0, 5)
	args := make([]any, 0, 6)
	args = append(args, userID)

	add := func(column string, value any) {
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.TOTPEnabled.Set {
		add("totp_enabled", update.TOTPEnabled.Value != nil && *update.TOTPEnabled.Value)
	}
	if update.TOTPSecretEnc.Set {
		add("totp_secret_enc", update.TOTPSecretEnc.Value)
	}
	if update.TOTPVerifiedAt.Set {
		add("totp_verified_at", update.TOTPVerifiedAt.Value)
	}
	if update.TOTPRecoveryCodeHashes.Set {
		if update.TOTPRecoveryCodeHashes.Value == nil {
			add("totp_recovery_codes_hash", nil)
		} else {
			encoded, err := json.Marshal(*update.TOTPRecoveryCodeHashes.Value)
			if err != nil {
				return nil, err
			}
			add("totp_recovery_codes_hash", encoded)
		}
	}
	if update.TOTPLastUsedStep.Set {
		add("totp_last_used_step", update.TOTPLastUsedStep.Value)
	}

	if len(assignments) == 0 {
		return ps.GetByID(ctx, userID)
	}

	query := fmt.Sprintf(
		`UPDATE users SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(assignments, ", "), userColumns)

	row := ps.pool.QueryRow(ctx, query, args...)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*User, error) {
	var (
		user       User
		hashesJSON []byte
	)
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.TOTPEnabled,
		&user.TOTPSecretEnc,
		&user.TOTPVerifiedAt,
		&hashesJSON,
		&user.TOTPLastUsedStep,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if len(hashesJSON) > 0 {
		var stored any
		if err := json.Unmarshal(hashesJSON, &stored); err == nil {
			user.TOTPRecoveryCodeHashes = recovery.CoerceHashes(stored)
		}
	}

	return &user, nil
}
