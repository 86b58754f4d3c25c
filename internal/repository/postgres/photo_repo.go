package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/reactivities-app/backend/internal/domain"
	"github.com/reactivities-app/backend/internal/repository"
)

type PhotoRepo struct {
	pool *pgxpool.Pool
}

func NewPhotoRepo(pool *pgxpool.Pool) *PhotoRepo {
	return &PhotoRepo{pool: pool}
}

func (r *PhotoRepo) Create(ctx context.Context, photo *domain.Photo) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO photos (id, user_id, url, public_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		photo.ID, photo.UserID, photo.URL, photo.PublicID, photo.CreatedAt,
	)
	return err
}

func (r *PhotoRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error) {
	query := `SELECT id, user_id, url, public_id, created_at FROM photos WHERE id = $1`
	var p domain.Photo
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.URL, &p.PublicID, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &p, err
}

func (r *PhotoRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Photo, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, url, public_id, created_at FROM photos WHERE user_id = $1 ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []domain.Photo
	for rows.Next() {
		var p domain.Photo
		if err := rows.Scan(&p.ID, &p.UserID, &p.URL, &p.PublicID, &p.CreatedAt); err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

func (r *PhotoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNoRowsAffected
	}
	return nil
}
