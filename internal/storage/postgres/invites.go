package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/void-bio-be/internal/models"
)

const inviteColumns = `id, code, uses_left, max_uses, created_by, used_by, used_at, created_at`

// FindRedeemableInvite fetches a code by exact match, only while uses_left > 0.
func (s *Store) FindRedeemableInvite(ctx context.Context, code string) (models.InviteCode, error) {
	query := `SELECT ` + inviteColumns + ` FROM invite_codes WHERE code = $1 AND uses_left > 0;`
	return scanInvite(s.pool.QueryRow(ctx, query, code))
}

// RedeemInvite decrements uses_left and stamps the redeemer in one guarded
// statement. It reports false when the code was already exhausted.
func (s *Store) RedeemInvite(ctx context.Context, code string, userID uuid.UUID, at time.Time) (bool, error) {
	const query = `
		UPDATE invite_codes
		SET uses_left = uses_left - 1, used_by = $2, used_at = $3
		WHERE code = $1 AND uses_left > 0;
	`
	tag, err := s.pool.Exec(ctx, query, code, userID, at)
	if err != nil {
		return false, translateError(err)
	}
	return tag.RowsAffected() == 1, nil
}

// CreateInvite inserts a new code.
func (s *Store) CreateInvite(ctx context.Context, invite models.InviteCode) (models.InviteCode, error) {
	if invite.ID == uuid.Nil {
		invite.ID = uuid.New()
	}
	query := `
		INSERT INTO invite_codes (id, code, uses_left, max_uses, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + inviteColumns + `;`
	row := s.pool.QueryRow(ctx, query, invite.ID, invite.Code, invite.UsesLeft, invite.MaxUses, nullUUID(invite.CreatedBy))
	return scanInvite(row)
}

// ListInvites returns every code, newest first.
func (s *Store) ListInvites(ctx context.Context) ([]models.InviteCode, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+inviteColumns+` FROM invite_codes ORDER BY created_at DESC;`)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var out []models.InviteCode
	for rows.Next() {
		invite, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, invite)
	}
	return out, translateError(rows.Err())
}

// DeleteInvite removes a code regardless of its state.
func (s *Store) DeleteInvite(ctx context.Context, id uuid.UUID) error {
	return expectRows(s.pool.Exec(ctx, `DELETE FROM invite_codes WHERE id = $1;`, id))
}

func scanInvite(row pgx.Row) (models.InviteCode, error) {
	var invite models.InviteCode
	var createdBy, usedBy uuid.NullUUID
	if err := row.Scan(&invite.ID, &invite.Code, &invite.UsesLeft, &invite.MaxUses, &createdBy, &usedBy, &invite.UsedAt, &invite.CreatedAt); err != nil {
		return models.InviteCode{}, translateError(err)
	}
	invite.CreatedBy = fromNullUUID(createdBy)
	invite.UsedBy = fromNullUUID(usedBy)
	return invite, nil
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func fromNullUUID(id uuid.NullUUID) *uuid.UUID {
	if !id.Valid {
		return nil
	}
	v := id.UUID
	return &v
}
