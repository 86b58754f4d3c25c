//go:build integration

package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/reactivities-app/backend/internal/domain"
	"github.com/reactivities-app/backend/internal/repository"
)

func setupTestPool(t *testing.T, ctx context.Context) *pgxpool.Pool {
	t.Helper()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("reactivities"),
		postgrescontainer.WithUsername("app"),
		postgrescontainer.WithPassword("app"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, waitForDatabase(ctx, connStr))
	runMigrations(t, ctx, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })
	return pool
}

func runMigrations(t *testing.T, ctx context.Context, connStr string) {
	t.Helper()

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	path := filepath.Join(filepath.Dir(file), "../../../db/migrations/0001_init.up.sql")

	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, string(contents))
	require.NoError(t, err)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}

func createTestUser(t *testing.T, ctx context.Context, users *UserRepo, email string) *domain.User {
	t.Helper()
	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		DisplayName:  "Test User",
		PasswordHash: "salt:hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, users.Create(ctx, user))
	return user
}

func createTestActivity(t *testing.T, ctx context.Context, activities *ActivityRepo, hostID uuid.UUID, date time.Time) *domain.Activity {
	t.Helper()
	now := time.Now().UTC()
	activity := &domain.Activity{
		ID:          uuid.New(),
		Title:       "Pub quiz",
		Description: "Weekly quiz",
		Category:    "drinks",
		Date:        date,
		City:        "Zagreb",
		Venue:       "Main square",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	host := &domain.Attendee{
		UserID:     hostID,
		ActivityID: activity.ID,
		IsHost:     true,
		DateJoined: now,
	}
	require.NoError(t, activities.Create(ctx, activity, host))
	return activity
}

func TestActivityRepoFeed(t *testing.T) {
	ctx := context.Background()
	pool := setupTestPool(t, ctx)

	users := NewUserRepo(pool)
	activities := NewActivityRepo(pool)

	host := createTestUser(t, ctx, users, "host@example.com")
	guest := createTestUser(t, ctx, users, "guest@example.com")

	base := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Microsecond)
	first := createTestActivity(t, ctx, activities, host.ID, base)
	second := createTestActivity(t, ctx, activities, host.ID, base.Add(time.Hour))
	third := createTestActivity(t, ctx, activities, host.ID, base.Add(2*time.Hour))

	require.NoError(t, activities.AddAttendee(ctx, &domain.Attendee{
		UserID:     guest.ID,
		ActivityID: first.ID,
		DateJoined: time.Now().UTC(),
	}))

	t.Run("ordering and annotation", func(t *testing.T) {
		items, err := activities.ListFeed(ctx, repository.FeedQuery{
			CallerID: guest.ID,
			From:     base,
			Limit:    10,
		})
		require.NoError(t, err)
		require.Len(t, items, 3)
		require.Equal(t, first.ID, items[0].ID)
		require.Equal(t, second.ID, items[1].ID)
		require.Equal(t, third.ID, items[2].ID)

		require.True(t, items[0].IsGoing)
		require.False(t, items[0].IsHost)
		require.Equal(t, 2, items[0].AttendeeCount)
		require.False(t, items[1].IsGoing)
		require.Equal(t, host.ID, items[1].HostID)
		require.Equal(t, host.DisplayName, items[1].HostDisplayName)
	})

	t.Run("inclusive lower bound", func(t *testing.T) {
		items, err := activities.ListFeed(ctx, repository.FeedQuery{
			CallerID: guest.ID,
			From:     second.Date,
			Limit:    10,
		})
		require.NoError(t, err)
		require.Len(t, items, 2)
		require.Equal(t, second.ID, items[0].ID)
	})

	t.Run("limit caps the page", func(t *testing.T) {
		items, err := activities.ListFeed(ctx, repository.FeedQuery{
			CallerID: guest.ID,
			From:     base,
			Limit:    2,
		})
		require.NoError(t, err)
		require.Len(t, items, 2)
	})

	t.Run("isGoing filter", func(t *testing.T) {
		items, err := activities.ListFeed(ctx, repository.FeedQuery{
			CallerID: guest.ID,
			From:     base,
			Limit:    10,
			Filter:   "isGoing",
		})
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.Equal(t, first.ID, items[0].ID)
	})

	t.Run("isHost filter", func(t *testing.T) {
		items, err := activities.ListFeed(ctx, repository.FeedQuery{
			CallerID: guest.ID,
			From:     base,
			Limit:    10,
			Filter:   "isHost",
		})
		require.NoError(t, err)
		require.Empty(t, items)

		items, err = activities.ListFeed(ctx, repository.FeedQuery{
			CallerID: host.ID,
			From:     base,
			Limit:    10,
			Filter:   "isHost",
		})
		require.NoError(t, err)
		require.Len(t, items, 3)
	})

	t.Run("anonymous caller", func(t *testing.T) {
		items, err := activities.ListFeed(ctx, repository.FeedQuery{
			CallerID: uuid.Nil,
			From:     base,
			Limit:    10,
			Filter:   "isGoing",
		})
		require.NoError(t, err)
		require.Empty(t, items)
	})
}

func TestAttendeeCompositeKey(t *testing.T) {
	ctx := context.Background()
	pool := setupTestPool(t, ctx)

	users := NewUserRepo(pool)
	activities := NewActivityRepo(pool)

	host := createTestUser(t, ctx, users, "host@example.com")
	guest := createTestUser(t, ctx, users, "guest@example.com")
	activity := createTestActivity(t, ctx, activities, host.ID, time.Now().UTC().Add(24*time.Hour))

	attendee := &domain.Attendee{
		UserID:     guest.ID,
		ActivityID: activity.ID,
		DateJoined: time.Now().UTC(),
	}
	require.NoError(t, activities.AddAttendee(ctx, attendee))

	// The composite primary key rejects the second insert.
	err := activities.AddAttendee(ctx, attendee)
	require.ErrorIs(t, err, repository.ErrDuplicate)

	require.NoError(t, activities.RemoveAttendee(ctx, guest.ID, activity.ID))
	got, err := activities.GetAttendee(ctx, guest.ID, activity.ID)
	require.NoError(t, err)
	require.Nil(t, got)

	// Joining again after leaving is fine.
	require.NoError(t, activities.AddAttendee(ctx, attendee))
}

func TestFollowingCompositeKeyAndCounts(t *testing.T) {
	ctx := context.Background()
	pool := setupTestPool(t, ctx)

	users := NewUserRepo(pool)
	follows := NewFollowRepo(pool)

	alice := createTestUser(t, ctx, users, "alice@example.com")
	bob := createTestUser(t, ctx, users, "bob@example.com")
	carol := createTestUser(t, ctx, users, "carol@example.com")

	now := time.Now().UTC()
	require.NoError(t, follows.Create(ctx, &domain.UserFollowing{ObserverID: alice.ID, TargetID: carol.ID, DateFollowed: now}))
	require.NoError(t, follows.Create(ctx, &domain.UserFollowing{ObserverID: bob.ID, TargetID: carol.ID, DateFollowed: now}))

	err := follows.Create(ctx, &domain.UserFollowing{ObserverID: alice.ID, TargetID: carol.ID, DateFollowed: now})
	require.ErrorIs(t, err, repository.ErrDuplicate)

	// The schema's check constraint rejects self-follows outright.
	err = follows.Create(ctx, &domain.UserFollowing{ObserverID: alice.ID, TargetID: alice.ID, DateFollowed: now})
	require.Error(t, err)

	followers, following, err := follows.Counts(ctx, carol.ID)
	require.NoError(t, err)
	require.Equal(t, 2, followers)
	require.Equal(t, 0, following)

	profiles, err := follows.ListFollowers(ctx, carol.ID)
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	edge, err := follows.Get(ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	require.NotNil(t, edge)

	require.NoError(t, follows.Delete(ctx, alice.ID, carol.ID))
	edge, err = follows.Get(ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	require.Nil(t, edge)
}

func TestDeleteActivityCascades(t *testing.T) {
	ctx := context.Background()
	pool := setupTestPool(t, ctx)

	users := NewUserRepo(pool)
	activities := NewActivityRepo(pool)
	comments := NewCommentRepo(pool)

	host := createTestUser(t, ctx, users, "host@example.com")
	activity := createTestActivity(t, ctx, activities, host.ID, time.Now().UTC().Add(24*time.Hour))

	require.NoError(t, comments.Create(ctx, &domain.Comment{
		ID:         uuid.New(),
		ActivityID: activity.ID,
		AuthorID:   host.ID,
		Body:       "See you there",
		CreatedAt:  time.Now().UTC(),
	}))

	require.NoError(t, activities.Delete(ctx, activity.ID))

	gone, err := activities.GetByID(ctx, activity.ID)
	require.NoError(t, err)
	require.Nil(t, gone)

	att, err := activities.GetAttendee(ctx, host.ID, activity.ID)
	require.NoError(t, err)
	require.Nil(t, att)

	rows, err := comments.ListByActivity(ctx, activity.ID)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestCommentJoinsAuthorFields(t *testing.T) {
	ctx := context.Background()
	pool := setupTestPool(t, ctx)

	users := NewUserRepo(pool)
	activities := NewActivityRepo(pool)
	comments := NewCommentRepo(pool)

	host := createTestUser(t, ctx, users, "host@example.com")
	activity := createTestActivity(t, ctx, activities, host.ID, time.Now().UTC().Add(24*time.Hour))

	comment := &domain.Comment{
		ID:         uuid.New(),
		ActivityID: activity.ID,
		AuthorID:   host.ID,
		Body:       "See you there",
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, comments.Create(ctx, comment))

	got, err := comments.GetByID(ctx, comment.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, host.DisplayName, got.AuthorDisplayName)

	list, err := comments.ListByActivity(ctx, activity.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, comment.Body, list[0].Body)
}
