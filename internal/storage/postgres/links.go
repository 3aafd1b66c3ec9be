package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/void-bio-be/internal/models"
)

const linkColumns = `id, user_id, title, url, icon, sort_order, is_enabled, created_at, updated_at`

// ListLinks returns a user's links ordered by sort_order.
func (s *Store) ListLinks(ctx context.Context, userID uuid.UUID, enabledOnly bool) ([]models.Link, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM links
		WHERE user_id = $1 AND ($2 = FALSE OR is_enabled)
		ORDER BY sort_order ASC, created_at ASC;`
	rows, err := s.pool.Query(ctx, query, userID, enabledOnly)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var out []models.Link
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, link)
	}
	return out, translateError(rows.Err())
}

// GetLink fetches one link scoped to its owner.
func (s *Store) GetLink(ctx context.Context, userID, linkID uuid.UUID) (models.Link, error) {
	return scanLink(s.pool.QueryRow(ctx, `SELECT `+linkColumns+` FROM links WHERE id = $1 AND user_id = $2;`, linkID, userID))
}

// CreateLink inserts a link.
func (s *Store) CreateLink(ctx context.Context, link models.Link) (models.Link, error) {
	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	query := `
		INSERT INTO links (id, user_id, title, url, icon, sort_order, is_enabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + linkColumns + `;`
	return scanLink(s.pool.QueryRow(ctx, query, link.ID, link.UserID, link.Title, link.URL, link.Icon, link.SortOrder, link.IsEnabled))
}

// UpdateLink overwrites a link owned by link.UserID.
func (s *Store) UpdateLink(ctx context.Context, link models.Link) (models.Link, error) {
	query := `
		UPDATE links
		SET title = $3, url = $4, icon = $5, sort_order = $6, is_enabled = $7, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + linkColumns + `;`
	return scanLink(s.pool.QueryRow(ctx, query, link.ID, link.UserID, link.Title, link.URL, link.Icon, link.SortOrder, link.IsEnabled))
}

// DeleteLink removes a link owned by userID.
func (s *Store) DeleteLink(ctx context.Context, userID, linkID uuid.UUID) error {
	return expectRows(s.pool.Exec(ctx, `DELETE FROM links WHERE id = $1 AND user_id = $2;`, linkID, userID))
}

func scanLink(row pgx.Row) (models.Link, error) {
	var l models.Link
	if err := row.Scan(&l.ID, &l.UserID, &l.Title, &l.URL, &l.Icon, &l.SortOrder, &l.IsEnabled, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return models.Link{}, translateError(err)
	}
	return l, nil
}
