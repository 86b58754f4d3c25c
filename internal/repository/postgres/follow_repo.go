package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/reactivities-app/backend/internal/domain"
)

type FollowRepo struct {
	pool *pgxpool.Pool
}

func NewFollowRepo(pool *pgxpool.Pool) *FollowRepo {
	return &FollowRepo{pool: pool}
}

func (r *FollowRepo) Get(ctx context.Context, observerID, targetID uuid.UUID) (*domain.UserFollowing, error) {
	query := `
		SELECT observer_id, target_id, date_followed
		FROM user_followings
		WHERE observer_id = $1 AND target_id = $2`
	var f domain.UserFollowing
	err := r.pool.QueryRow(ctx, query, observerID, targetID).Scan(
		&f.ObserverID, &f.TargetID, &f.DateFollowed,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &f, err
}

func (r *FollowRepo) Create(ctx context.Context, following *domain.UserFollowing) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_followings (observer_id, target_id, date_followed)
		VALUES ($1, $2, $3)`,
		following.ObserverID, following.TargetID, following.DateFollowed,
	)
	return mapConstraintError(err)
}

func (r *FollowRepo) Delete(ctx context.Context, observerID, targetID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM user_followings WHERE observer_id = $1 AND target_id = $2`,
		observerID, targetID,
	)
	return err
}

func (r *FollowRepo) ListFollowers(ctx context.Context, targetID uuid.UUID) ([]domain.Profile, error) {
	query := `
		SELECT u.id, u.display_name, u.bio, u.image_url
		FROM user_followings f
		JOIN users u ON u.id = f.observer_id
		WHERE f.target_id = $1
		ORDER BY f.date_followed DESC`
	return r.listProfiles(ctx, query, targetID)
}

func (r *FollowRepo) ListFollowing(ctx context.Context, observerID uuid.UUID) ([]domain.Profile, error) {
	query := `
		SELECT u.id, u.display_name, u.bio, u.image_url
		FROM user_followings f
		JOIN users u ON u.id = f.target_id
		WHERE f.observer_id = $1
		ORDER BY f.date_followed DESC`
	return r.listProfiles(ctx, query, observerID)
}

func (r *FollowRepo) Counts(ctx context.Context, userID uuid.UUID) (int, int, error) {
	query := `
		SELECT
			(SELECT count(*) FROM user_followings WHERE target_id = $1),
			(SELECT count(*) FROM user_followings WHERE observer_id = $1)`
	var followers, following int
	err := r.pool.QueryRow(ctx, query, userID).Scan(&followers, &following)
	return followers, following, err
}

func (r *FollowRepo) listProfiles(ctx context.Context, query string, arg any) ([]domain.Profile, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(&p.ID, &p.DisplayName, &p.Bio, &p.ImageURL); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
