package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/void-bio-be/internal/models"
)

const paymentColumns = `id, user_id, badge_id, discord_username, amount, status, notes, created_at`

// CreatePaymentLog appends a payment record. Status always starts pending.
func (s *Store) CreatePaymentLog(ctx context.Context, log models.PaymentLog) (models.PaymentLog, error) {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	query := `
		INSERT INTO payment_logs (id, user_id, badge_id, discord_username, amount, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + paymentColumns + `;`
	return scanPaymentLog(s.pool.QueryRow(ctx, query, log.ID, log.UserID, nullUUID(log.BadgeID), log.DiscordUsername, log.Amount, log.Notes))
}

// ListPaymentLogs returns the latest records, newest first.
func (s *Store) ListPaymentLogs(ctx context.Context, limit int) ([]models.PaymentLog, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+paymentColumns+` FROM payment_logs ORDER BY created_at DESC LIMIT $1;`, limit)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var out []models.PaymentLog
	for rows.Next() {
		entry, err := scanPaymentLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, translateError(rows.Err())
}

func scanPaymentLog(row pgx.Row) (models.PaymentLog, error) {
	var p models.PaymentLog
	var badgeID uuid.NullUUID
	var status string
	if err := row.Scan(&p.ID, &p.UserID, &badgeID, &p.DiscordUsername, &p.Amount, &status, &p.Notes, &p.CreatedAt); err != nil {
		return models.PaymentLog{}, translateError(err)
	}
	p.BadgeID = fromNullUUID(badgeID)
	p.Status = models.PaymentStatus(status)
	return p, nil
}
