package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/reactivities-app/backend/internal/domain"
	"github.com/reactivities-app/backend/internal/repository"
)

type ActivityRepo struct {
	pool *pgxpool.Pool
}

func NewActivityRepo(pool *pgxpool.Pool) *ActivityRepo {
	return &ActivityRepo{pool: pool}
}

func (r *ActivityRepo) Create(ctx context.Context, activity *domain.Activity, host *domain.Attendee) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO activities (id, title, description, category, date, city, venue, latitude, longitude, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		activity.ID, activity.Title, activity.Description, activity.Category,
		activity.Date, activity.City, activity.Venue, activity.Latitude,
		activity.Longitude, activity.CreatedAt, activity.UpdatedAt,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO activity_attendees (user_id, activity_id, is_host, date_joined)
		VALUES ($1, $2, $3, $4)`,
		host.UserID, host.ActivityID, host.IsHost, host.DateJoined,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ActivityRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	query := `
		SELECT id, title, description, category, date, city, venue, latitude, longitude, created_at, updated_at
		FROM activities WHERE id = $1`
	var a domain.Activity
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Title, &a.Description, &a.Category, &a.Date,
		&a.City, &a.Venue, &a.Latitude, &a.Longitude, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &a, err
}

func (r *ActivityRepo) Update(ctx context.Context, activity *domain.Activity) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE activities
		SET title = $1, description = $2, category = $3, date = $4,
			city = $5, venue = $6, latitude = $7, longitude = $8, updated_at = $9
		WHERE id = $10`,
		activity.Title, activity.Description, activity.Category, activity.Date,
		activity.City, activity.Venue, activity.Latitude, activity.Longitude,
		activity.UpdatedAt, activity.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNoRowsAffected
	}
	return nil
}

// Delete removes the activity. Attendee and comment rows go with it via
// the schema's cascade.
func (r *ActivityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNoRowsAffected
	}
	return nil
}

const feedColumns = `
	a.id, a.title, a.description, a.category, a.date, a.city, a.venue,
	a.latitude, a.longitude, a.created_at, a.updated_at,
	EXISTS (SELECT 1 FROM activity_attendees g WHERE g.activity_id = a.id AND g.user_id = $2) AS is_going,
	EXISTS (SELECT 1 FROM activity_attendees g WHERE g.activity_id = a.id AND g.user_id = $2 AND g.is_host) AS is_host,
	h.user_id, hu.display_name,
	(SELECT count(*) FROM activity_attendees g WHERE g.activity_id = a.id) AS attendee_count`

func (r *ActivityRepo) ListFeed(ctx context.Context, q repository.FeedQuery) ([]domain.ActivityListItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM activities a
		JOIN activity_attendees h ON h.activity_id = a.id AND h.is_host
		JOIN users hu ON hu.id = h.user_id
		WHERE a.date >= $1`, feedColumns)

	switch q.Filter {
	case "isGoing":
		query += ` AND EXISTS (SELECT 1 FROM activity_attendees f WHERE f.activity_id = a.id AND f.user_id = $2)`
	case "isHost":
		query += ` AND EXISTS (SELECT 1 FROM activity_attendees f WHERE f.activity_id = a.id AND f.user_id = $2 AND f.is_host)`
	}

	query += ` ORDER BY a.date, a.id LIMIT $3`

	rows, err := r.pool.Query(ctx, query, q.From, q.CallerID, q.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.ActivityListItem
	for rows.Next() {
		var it domain.ActivityListItem
		if err := rows.Scan(
			&it.ID, &it.Title, &it.Description, &it.Category, &it.Date,
			&it.City, &it.Venue, &it.Latitude, &it.Longitude,
			&it.CreatedAt, &it.UpdatedAt,
			&it.IsGoing, &it.IsHost, &it.HostID, &it.HostDisplayName, &it.AttendeeCount,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *ActivityRepo) ListByUser(ctx context.Context, userID uuid.UUID, filter string, now time.Time) ([]domain.Activity, error) {
	query := `
		SELECT a.id, a.title, a.description, a.category, a.date, a.city, a.venue,
			a.latitude, a.longitude, a.created_at, a.updated_at
		FROM activity_attendees aa
		JOIN activities a ON a.id = aa.activity_id
		WHERE aa.user_id = $1`

	args := []any{userID}
	switch filter {
	case "past":
		query += ` AND a.date <= $2`
		args = append(args, now)
	case "hosting":
		query += ` AND aa.is_host`
	default:
		query += ` AND a.date >= $2`
		args = append(args, now)
	}

	query += ` ORDER BY a.date`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []domain.Activity
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(
			&a.ID, &a.Title, &a.Description, &a.Category, &a.Date,
			&a.City, &a.Venue, &a.Latitude, &a.Longitude, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func (r *ActivityRepo) AddAttendee(ctx context.Context, attendee *domain.Attendee) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO activity_attendees (user_id, activity_id, is_host, date_joined)
		VALUES ($1, $2, $3, $4)`,
		attendee.UserID, attendee.ActivityID, attendee.IsHost, attendee.DateJoined,
	)
	return mapConstraintError(err)
}

func (r *ActivityRepo) RemoveAttendee(ctx context.Context, userID, activityID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM activity_attendees WHERE user_id = $1 AND activity_id = $2`,
		userID, activityID,
	)
	return err
}

func (r *ActivityRepo) GetAttendee(ctx context.Context, userID, activityID uuid.UUID) (*domain.Attendee, error) {
	query := `
		SELECT user_id, activity_id, is_host, date_joined
		FROM activity_attendees
		WHERE user_id = $1 AND activity_id = $2`
	var att domain.Attendee
	err := r.pool.QueryRow(ctx, query, userID, activityID).Scan(
		&att.UserID, &att.ActivityID, &att.IsHost, &att.DateJoined,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &att, err
}

func (r *ActivityRepo) ListAttendees(ctx context.Context, activityID uuid.UUID) ([]domain.Attendee, error) {
	query := `
		SELECT aa.user_id, aa.activity_id, aa.is_host, aa.date_joined,
			u.display_name, u.bio, u.image_url
		FROM activity_attendees aa
		JOIN users u ON u.id = aa.user_id
		WHERE aa.activity_id = $1
		ORDER BY aa.date_joined`

	rows, err := r.pool.Query(ctx, query, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attendees []domain.Attendee
	for rows.Next() {
		var att domain.Attendee
		if err := rows.Scan(
			&att.UserID, &att.ActivityID, &att.IsHost, &att.DateJoined,
			&att.DisplayName, &att.Bio, &att.ImageURL,
		); err != nil {
			return nil, err
		}
		attendees = append(attendees, att)
	}
	return attendees, rows.Err()
}
