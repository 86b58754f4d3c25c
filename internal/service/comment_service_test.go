package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/reactivities-app/backend/internal/domain"
	"github.com/reactivities-app/backend/internal/repository"
	"github.com/stretchr/testify/require"
)

type fakeCommentRepo struct {
	comments map[uuid.UUID]domain.Comment
	names    map[uuid.UUID]string

	createErr error
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{
		comments: make(map[uuid.UUID]domain.Comment),
		names:    make(map[uuid.UUID]string),
	}
}

func (f *fakeCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.comments[comment.ID] = *comment
	return nil
}

func (f *fakeCommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, nil
	}
	c.AuthorDisplayName = f.names[c.AuthorID]
	return &c, nil
}

func (f *fakeCommentRepo) ListByActivity(ctx context.Context, activityID uuid.UUID) ([]domain.Comment, error) {
	var comments []domain.Comment
	for _, c := range f.comments {
		if c.ActivityID == activityID {
			c.AuthorDisplayName = f.names[c.AuthorID]
			comments = append(comments, c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].CreatedAt.After(comments[j].CreatedAt) })
	return comments, nil
}

type recordingNotifier struct {
	comments []*domain.Comment
}

func (n *recordingNotifier) NotifyNewComment(comment *domain.Comment) {
	n.comments = append(n.comments, comment)
}

func TestAddComment(t *testing.T) {
	activityRepo := newFakeActivityRepo()
	hostID := uuid.New()
	ids := seedActivities(t, activityRepo, hostID, time.Now().UTC().Add(24*time.Hour))

	commentRepo := newFakeCommentRepo()
	commentRepo.names[hostID] = "Host"

	notifier := &recordingNotifier{}
	svc := NewCommentService(commentRepo, activityRepo)
	svc.SetNotifier(notifier)

	comment, err := svc.Add(context.Background(), hostID, ids[0], "See you there")
	require.NoError(t, err)
	require.Equal(t, "See you there", comment.Body)
	require.Equal(t, hostID, comment.AuthorID)
	require.Equal(t, "Host", comment.AuthorDisplayName)

	require.Len(t, notifier.comments, 1)
	require.Equal(t, comment.ID, notifier.comments[0].ID)
}

func TestAddCommentUnknownActivity(t *testing.T) {
	svc := NewCommentService(newFakeCommentRepo(), newFakeActivityRepo())
	_, err := svc.Add(context.Background(), uuid.New(), uuid.New(), "hello")
	require.ErrorIs(t, err, ErrActivityNotFound)
}

func TestAddCommentWriteMissed(t *testing.T) {
	activityRepo := newFakeActivityRepo()
	hostID := uuid.New()
	ids := seedActivities(t, activityRepo, hostID, time.Now().UTC().Add(24*time.Hour))

	commentRepo := newFakeCommentRepo()
	commentRepo.createErr = repository.ErrNoRowsAffected

	notifier := &recordingNotifier{}
	svc := NewCommentService(commentRepo, activityRepo)
	svc.SetNotifier(notifier)

	_, err := svc.Add(context.Background(), hostID, ids[0], "hello")
	require.ErrorIs(t, err, ErrCommentNotSaved)
	require.Empty(t, notifier.comments, "failed writes must not notify")
}

func TestListCommentsNewestFirst(t *testing.T) {
	activityRepo := newFakeActivityRepo()
	hostID := uuid.New()
	ids := seedActivities(t, activityRepo, hostID, time.Now().UTC().Add(24*time.Hour))

	commentRepo := newFakeCommentRepo()
	svc := NewCommentService(commentRepo, activityRepo)

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		id := uuid.New()
		commentRepo.comments[id] = domain.Comment{
			ID:         id,
			ActivityID: ids[0],
			AuthorID:   hostID,
			Body:       "comment",
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
	}

	comments, err := svc.ListByActivity(context.Background(), ids[0])
	require.NoError(t, err)
	require.Len(t, comments, 3)
	for i := 1; i < len(comments); i++ {
		require.False(t, comments[i].CreatedAt.After(comments[i-1].CreatedAt))
	}

	_, err = svc.ListByActivity(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrActivityNotFound)
}

func TestListCommentsEmptyActivity(t *testing.T) {
	activityRepo := newFakeActivityRepo()
	hostID := uuid.New()
	ids := seedActivities(t, activityRepo, hostID, time.Now().UTC().Add(24*time.Hour))

	svc := NewCommentService(newFakeCommentRepo(), activityRepo)
	comments, err := svc.ListByActivity(context.Background(), ids[0])
	require.NoError(t, err)
	require.NotNil(t, comments)
	require.Empty(t, comments)
}
