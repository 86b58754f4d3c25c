package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/reactivities-app/backend/internal/domain"
	"github.com/reactivities-app/backend/internal/repository"
	"github.com/reactivities-app/backend/internal/service"
	"github.com/reactivities-app/backend/internal/transport/http/middleware"
	"github.com/stretchr/testify/require"
)

type memActivityRepo struct {
	activities map[uuid.UUID]domain.Activity
	attendees  map[uuid.UUID]map[uuid.UUID]domain.Attendee
}

func newMemActivityRepo() *memActivityRepo {
	return &memActivityRepo{
		activities: make(map[uuid.UUID]domain.Activity),
		attendees:  make(map[uuid.UUID]map[uuid.UUID]domain.Attendee),
	}
}

func (m *memActivityRepo) Create(ctx context.Context, activity *domain.Activity, host *domain.Attendee) error {
	m.activities[activity.ID] = *activity
	return m.AddAttendee(ctx, host)
}

func (m *memActivityRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	a, ok := m.activities[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *memActivityRepo) Update(ctx context.Context, activity *domain.Activity) error {
	if _, ok := m.activities[activity.ID]; !ok {
		return repository.ErrNoRowsAffected
	}
	m.activities[activity.ID] = *activity
	return nil
}

func (m *memActivityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.activities[id]; !ok {
		return repository.ErrNoRowsAffected
	}
	delete(m.activities, id)
	delete(m.attendees, id)
	return nil
}

func (m *memActivityRepo) ListFeed(ctx context.Context, q repository.FeedQuery) ([]domain.ActivityListItem, error) {
	var items []domain.ActivityListItem
	for _, a := range m.activities {
		if a.Date.Before(q.From) {
			continue
		}
		caller, going := m.attendees[a.ID][q.CallerID]
		if q.Filter == "isGoing" && !going {
			continue
		}
		if q.Filter == "isHost" && (!going || !caller.IsHost) {
			continue
		}
		items = append(items, domain.ActivityListItem{
			Activity:      a,
			IsGoing:       going,
			IsHost:        going && caller.IsHost,
			AttendeeCount: len(m.attendees[a.ID]),
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.Before(items[j].Date)
		}
		return items[i].ID.String() < items[j].ID.String()
	})
	if len(items) > q.Limit {
		items = items[:q.Limit]
	}
	return items, nil
}

func (m *memActivityRepo) ListByUser(ctx context.Context, userID uuid.UUID, filter string, now time.Time) ([]domain.Activity, error) {
	return nil, nil
}

func (m *memActivityRepo) AddAttendee(ctx context.Context, attendee *domain.Attendee) error {
	if m.attendees[attendee.ActivityID] == nil {
		m.attendees[attendee.ActivityID] = make(map[uuid.UUID]domain.Attendee)
	}
	if _, ok := m.attendees[attendee.ActivityID][attendee.UserID]; ok {
		return repository.ErrDuplicate
	}
	m.attendees[attendee.ActivityID][attendee.UserID] = *attendee
	return nil
}

func (m *memActivityRepo) RemoveAttendee(ctx context.Context, userID, activityID uuid.UUID) error {
	delete(m.attendees[activityID], userID)
	return nil
}

func (m *memActivityRepo) GetAttendee(ctx context.Context, userID, activityID uuid.UUID) (*domain.Attendee, error) {
	att, ok := m.attendees[activityID][userID]
	if !ok {
		return nil, nil
	}
	return &att, nil
}

func (m *memActivityRepo) ListAttendees(ctx context.Context, activityID uuid.UUID) ([]domain.Attendee, error) {
	var attendees []domain.Attendee
	for _, att := range m.attendees[activityID] {
		attendees = append(attendees, att)
	}
	return attendees, nil
}

type activityFixture struct {
	mux  *http.ServeMux
	svc  *service.ActivityService
	repo *memActivityRepo
}

func newActivityFixture() *activityFixture {
	repo := newMemActivityRepo()
	svc := service.NewActivityService(repo)
	h := NewActivityHandler(svc)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/activities", h.List)
	mux.HandleFunc("GET /api/v1/activities/{id}", h.Get)
	mux.HandleFunc("POST /api/v1/activities", h.Create)
	mux.HandleFunc("PUT /api/v1/activities/{id}", h.Update)
	mux.HandleFunc("DELETE /api/v1/activities/{id}", h.Delete)
	mux.HandleFunc("POST /api/v1/activities/{id}/attend", h.ToggleAttendance)

	return &activityFixture{mux: mux, svc: svc, repo: repo}
}

// do performs a request, optionally authenticated as userID.
func (fx *activityFixture) do(t *testing.T, method, target string, userID uuid.UUID, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if userID != uuid.Nil {
		req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
	}

	rec := httptest.NewRecorder()
	fx.mux.ServeHTTP(rec, req)
	return rec
}

func (fx *activityFixture) seed(t *testing.T, hostID uuid.UUID, dates ...time.Time) []uuid.UUID {
	t.Helper()
	ids := make([]uuid.UUID, 0, len(dates))
	for _, d := range dates {
		a, err := fx.svc.Create(context.Background(), hostID, service.ActivityInput{
			Title:       "Test activity",
			Description: "Testing",
			Category:    "drinks",
			Date:        d,
			City:        "Zagreb",
			Venue:       "Main square",
		})
		require.NoError(t, err)
		ids = append(ids, a.ID)
	}
	return ids
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func TestListRejectsMalformedCursor(t *testing.T) {
	fx := newActivityFixture()

	rec := fx.do(t, http.MethodGet, "/api/v1/activities?cursor=yesterday", uuid.Nil, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "INVALID_CURSOR", errorCode(t, rec))
}

func TestListServesCursorPages(t *testing.T) {
	fx := newActivityFixture()
	hostID := uuid.New()
	base := time.Now().UTC().Add(24 * time.Hour)
	fx.seed(t, hostID, base, base.Add(time.Hour), base.Add(2*time.Hour))

	rec := fx.do(t, http.MethodGet, "/api/v1/activities?pageSize=2", uuid.Nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	type feedPage struct {
		Items      []json.RawMessage `json:"items"`
		NextCursor *time.Time        `json:"next_cursor"`
	}

	var first feedPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	require.Len(t, first.Items, 2)
	require.NotNil(t, first.NextCursor)

	next := first.NextCursor.Format(time.RFC3339Nano)
	rec = fx.do(t, http.MethodGet, "/api/v1/activities?pageSize=2&cursor="+next, uuid.Nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// The final page omits next_cursor entirely; decode into a fresh value
	// so nothing from the first page can leak in.
	var last feedPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &last))
	require.Len(t, last.Items, 1)
	require.Nil(t, last.NextCursor)
}

func TestGetActivity(t *testing.T) {
	fx := newActivityFixture()
	hostID := uuid.New()
	ids := fx.seed(t, hostID, time.Now().UTC().Add(24*time.Hour))

	rec := fx.do(t, http.MethodGet, "/api/v1/activities/"+ids[0].String(), hostID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var details domain.ActivityDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &details))
	require.Equal(t, ids[0], details.ID)
	require.True(t, details.IsHost)

	rec = fx.do(t, http.MethodGet, "/api/v1/activities/"+uuid.NewString(), uuid.Nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = fx.do(t, http.MethodGet, "/api/v1/activities/not-a-uuid", uuid.Nil, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "INVALID_ID", errorCode(t, rec))
}

func TestCreateValidatesInput(t *testing.T) {
	fx := newActivityFixture()
	userID := uuid.New()

	rec := fx.do(t, http.MethodPost, "/api/v1/activities", userID, service.ActivityInput{
		Title: "Missing everything else",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))

	rec = fx.do(t, http.MethodPost, "/api/v1/activities", userID, service.ActivityInput{
		Title:       "Pub quiz",
		Description: "Weekly quiz",
		Category:    "drinks",
		Date:        time.Now().UTC().Add(24 * time.Hour),
		City:        "Zagreb",
		Venue:       "Main square",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Activity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEqual(t, uuid.Nil, created.ID)
}

func TestUpdateRequiresHost(t *testing.T) {
	fx := newActivityFixture()
	hostID := uuid.New()
	guestID := uuid.New()
	ids := fx.seed(t, hostID, time.Now().UTC().Add(24*time.Hour))

	input := service.ActivityInput{
		Title:       "Edited",
		Description: "Edited",
		Category:    "culture",
		Date:        time.Now().UTC().Add(48 * time.Hour),
		City:        "Split",
		Venue:       "Riva",
	}

	rec := fx.do(t, http.MethodPut, "/api/v1/activities/"+ids[0].String(), guestID, input)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "FORBIDDEN", errorCode(t, rec))

	// A non-existent activity denies rather than revealing absence.
	rec = fx.do(t, http.MethodPut, "/api/v1/activities/"+uuid.NewString(), hostID, input)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = fx.do(t, http.MethodPut, "/api/v1/activities/"+ids[0].String(), hostID, input)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated domain.Activity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, "Edited", updated.Title)
}

func TestDeleteRequiresHost(t *testing.T) {
	fx := newActivityFixture()
	hostID := uuid.New()
	guestID := uuid.New()
	ids := fx.seed(t, hostID, time.Now().UTC().Add(24*time.Hour))

	rec := fx.do(t, http.MethodDelete, "/api/v1/activities/"+ids[0].String(), guestID, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = fx.do(t, http.MethodDelete, "/api/v1/activities/"+ids[0].String(), hostID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = fx.do(t, http.MethodGet, "/api/v1/activities/"+ids[0].String(), uuid.Nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestToggleAttendanceEndpoint(t *testing.T) {
	fx := newActivityFixture()
	hostID := uuid.New()
	guestID := uuid.New()
	ids := fx.seed(t, hostID, time.Now().UTC().Add(24*time.Hour))
	attend := fmt.Sprintf("/api/v1/activities/%s/attend", ids[0])

	rec := fx.do(t, http.MethodPost, attend, guestID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = fx.do(t, http.MethodPost, attend, hostID, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "HOST_CANNOT_LEAVE", errorCode(t, rec))

	rec = fx.do(t, http.MethodPost, fmt.Sprintf("/api/v1/activities/%s/attend", uuid.New()), guestID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
