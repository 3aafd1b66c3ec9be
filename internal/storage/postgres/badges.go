package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/void-bio-be/internal/models"
)

const badgeColumns = `id, name, icon, tooltip, is_premium, discord_buy_link, created_at`

// ListBadges returns the catalog with premium badges first.
func (s *Store) ListBadges(ctx context.Context) ([]models.Badge, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+badgeColumns+` FROM badges ORDER BY is_premium DESC, name ASC;`)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var out []models.Badge
	for rows.Next() {
		badge, err := scanBadge(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, badge)
	}
	return out, translateError(rows.Err())
}

// CreateBadge inserts a catalog badge.
func (s *Store) CreateBadge(ctx context.Context, badge models.Badge) (models.Badge, error) {
	if badge.ID == uuid.Nil {
		badge.ID = uuid.New()
	}
	query := `
		INSERT INTO badges (id, name, icon, tooltip, is_premium, discord_buy_link)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + badgeColumns + `;`
	return scanBadge(s.pool.QueryRow(ctx, query, badge.ID, badge.Name, badge.Icon, badge.Tooltip, badge.IsPremium, badge.DiscordBuyLink))
}

// DeleteBadge removes a badge and every assignment of it.
func (s *Store) DeleteBadge(ctx context.Context, id uuid.UUID) error {
	return expectRows(s.pool.Exec(ctx, `DELETE FROM badges WHERE id = $1;`, id))
}

// ListUserBadges returns a user's badges joined with their catalog entry.
func (s *Store) ListUserBadges(ctx context.Context, userID uuid.UUID, displayedOnly bool) ([]models.UserBadge, error) {
	const query = `
		SELECT ub.id, ub.user_id, ub.badge_id, ub.is_displayed, ub.acquired_at,
			b.id, b.name, b.icon, b.tooltip, b.is_premium, b.discord_buy_link, b.created_at
		FROM user_badges ub
		JOIN badges b ON b.id = ub.badge_id
		WHERE ub.user_id = $1 AND ($2 = FALSE OR ub.is_displayed)
		ORDER BY ub.acquired_at ASC;
	`
	rows, err := s.pool.Query(ctx, query, userID, displayedOnly)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var out []models.UserBadge
	for rows.Next() {
		var ub models.UserBadge
		var b models.Badge
		if err := rows.Scan(&ub.ID, &ub.UserID, &ub.BadgeID, &ub.IsDisplayed, &ub.AcquiredAt,
			&b.ID, &b.Name, &b.Icon, &b.Tooltip, &b.IsPremium, &b.DiscordBuyLink, &b.CreatedAt); err != nil {
			return nil, translateError(err)
		}
		ub.Badge = &b
		out = append(out, ub)
	}
	return out, translateError(rows.Err())
}

// AssignBadge grants a badge. The (user_id, badge_id) unique constraint turns
// a concurrent double assignment into storage.ErrAlreadyExists.
func (s *Store) AssignBadge(ctx context.Context, ub models.UserBadge) (models.UserBadge, error) {
	if ub.ID == uuid.Nil {
		ub.ID = uuid.New()
	}
	const query = `
		INSERT INTO user_badges (id, user_id, badge_id, is_displayed)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, badge_id, is_displayed, acquired_at;
	`
	var out models.UserBadge
	err := s.pool.QueryRow(ctx, query, ub.ID, ub.UserID, ub.BadgeID, ub.IsDisplayed).
		Scan(&out.ID, &out.UserID, &out.BadgeID, &out.IsDisplayed, &out.AcquiredAt)
	if err != nil {
		return models.UserBadge{}, translateError(err)
	}
	return out, nil
}

// SetBadgeDisplayed toggles whether an owned badge shows on the public page.
func (s *Store) SetBadgeDisplayed(ctx context.Context, userID, badgeID uuid.UUID, displayed bool) error {
	return expectRows(s.pool.Exec(ctx, `UPDATE user_badges SET is_displayed = $3 WHERE user_id = $1 AND badge_id = $2;`, userID, badgeID, displayed))
}

// RevokeBadge removes an assignment.
func (s *Store) RevokeBadge(ctx context.Context, userID, badgeID uuid.UUID) error {
	return expectRows(s.pool.Exec(ctx, `DELETE FROM user_badges WHERE user_id = $1 AND badge_id = $2;`, userID, badgeID))
}

func scanBadge(row pgx.Row) (models.Badge, error) {
	var b models.Badge
	if err := row.Scan(&b.ID, &b.Name, &b.Icon, &b.Tooltip, &b.IsPremium, &b.DiscordBuyLink, &b.CreatedAt); err != nil {
		return models.Badge{}, translateError(err)
	}
	return b, nil
}
