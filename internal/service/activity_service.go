package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/reactivities-app/backend/internal/domain"
	"github.com/reactivities-app/backend/internal/observability"
	"github.com/reactivities-app/backend/internal/repository"
)

var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrNotHost          = errors.New("only the activity host can perform this action")
	ErrHostCannotLeave  = errors.New("the host cannot leave their own activity")
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

type ActivityService struct {
	activityRepo repository.ActivityRepository
}

func NewActivityService(activityRepo repository.ActivityRepository) *ActivityService {
	return &ActivityService{activityRepo: activityRepo}
}

type ActivityInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	City        string    `json:"city"`
	Venue       string    `json:"venue"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
}

type FeedPage struct {
	Items      []domain.ActivityListItem `json:"items"`
	NextCursor *time.Time                `json:"next_cursor,omitempty"`
}

// Create persists the activity with the creator as its only host attendee.
func (s *ActivityService) Create(ctx context.Context, userID uuid.UUID, input ActivityInput) (*domain.Activity, error) {
	now := time.Now().UTC()
	activity := &domain.Activity{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Date:        input.Date.UTC(),
		City:        input.City,
		Venue:       input.Venue,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	host := &domain.Attendee{
		UserID:     userID,
		ActivityID: activity.ID,
		IsHost:     true,
		DateJoined: now,
	}

	if err := s.activityRepo.Create(ctx, activity, host); err != nil {
		return nil, fmt.Errorf("creating activity: %w", err)
	}

	observability.RecordActivityCreated(now)
	return activity, nil
}

func (s *ActivityService) GetDetails(ctx context.Context, callerID, activityID uuid.UUID) (*domain.ActivityDetails, error) {
	activity, err := s.activityRepo.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}

	attendees, err := s.activityRepo.ListAttendees(ctx, activityID)
	if err != nil {
		return nil, err
	}

	details := &domain.ActivityDetails{
		ActivityListItem: domain.ActivityListItem{Activity: *activity},
		Attendees:        attendees,
	}
	details.AttendeeCount = len(attendees)
	for _, att := range attendees {
		if att.IsHost {
			details.HostID = att.UserID
			details.HostDisplayName = att.DisplayName
		}
		if att.UserID == callerID {
			details.IsGoing = true
			details.IsHost = att.IsHost
		}
	}
	return details, nil
}

// Update edits an activity. Only the host may edit; absence of an attendee
// row denies, which also covers non-existent activities.
func (s *ActivityService) Update(ctx context.Context, callerID, activityID uuid.UUID, input ActivityInput) (*domain.Activity, error) {
	if err := s.requireHost(ctx, callerID, activityID); err != nil {
		return nil, err
	}

	activity, err := s.activityRepo.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}

	activity.Title = input.Title
	activity.Description = input.Description
	activity.Category = input.Category
	activity.Date = input.Date.UTC()
	activity.City = input.City
	activity.Venue = input.Venue
	activity.Latitude = input.Latitude
	activity.Longitude = input.Longitude
	activity.UpdatedAt = time.Now().UTC()

	if err := s.activityRepo.Update(ctx, activity); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("updating activity: %w", err)
	}
	return activity, nil
}

func (s *ActivityService) Delete(ctx context.Context, callerID, activityID uuid.UUID) error {
	if err := s.requireHost(ctx, callerID, activityID); err != nil {
		return err
	}

	if err := s.activityRepo.Delete(ctx, activityID); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return ErrActivityNotFound
		}
		return fmt.Errorf("deleting activity: %w", err)
	}
	return nil
}

// ListFeed returns one cursor page of upcoming activities. callerID may be
// uuid.Nil for anonymous browsing; the isGoing/isHost filters then match
// nothing rather than failing.
//
// The repo is asked for pageSize+1 rows; a full overfetch means another page
// exists and the extra row's date becomes the next cursor (inclusive, the
// next page starts with that row).
func (s *ActivityService) ListFeed(ctx context.Context, callerID uuid.UUID, cursor *time.Time, pageSize int, filter string) (*FeedPage, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	from := time.Now().UTC()
	if cursor != nil {
		from = cursor.UTC()
	}

	items, err := s.activityRepo.ListFeed(ctx, repository.FeedQuery{
		CallerID: callerID,
		From:     from,
		Limit:    pageSize + 1,
		Filter:   filter,
	})
	if err != nil {
		return nil, fmt.Errorf("listing feed: %w", err)
	}

	var next *time.Time
	if len(items) > pageSize {
		d := items[pageSize].Date
		next = &d
		items = items[:pageSize]
	}
	if items == nil {
		items = []domain.ActivityListItem{}
	}

	observability.IncFeedRequests(filter)
	return &FeedPage{Items: items, NextCursor: next}, nil
}

// ToggleAttendance joins the caller to the activity, or removes them if
// already attending. The host cannot leave their own activity.
func (s *ActivityService) ToggleAttendance(ctx context.Context, callerID, activityID uuid.UUID) error {
	activity, err := s.activityRepo.GetByID(ctx, activityID)
	if err != nil {
		return err
	}
	if activity == nil {
		return ErrActivityNotFound
	}

	attendee, err := s.activityRepo.GetAttendee(ctx, callerID, activityID)
	if err != nil {
		return err
	}

	if attendee != nil {
		if attendee.IsHost {
			return ErrHostCannotLeave
		}
		if err := s.activityRepo.RemoveAttendee(ctx, callerID, activityID); err != nil {
			return fmt.Errorf("removing attendee: %w", err)
		}
		observability.IncAttendanceToggles("leave")
		return nil
	}

	err = s.activityRepo.AddAttendee(ctx, &domain.Attendee{
		UserID:     callerID,
		ActivityID: activityID,
		IsHost:     false,
		DateJoined: time.Now().UTC(),
	})
	if errors.Is(err, repository.ErrDuplicate) {
		// A concurrent toggle won the race; the desired state already holds.
		return nil
	}
	if err != nil {
		return fmt.Errorf("adding attendee: %w", err)
	}
	observability.IncAttendanceToggles("join")
	return nil
}

// requireHost is the authorization guard for mutating activity commands.
// No row and is_host=false deny alike; non-existent activities are denied
// here without a separate not-found check.
func (s *ActivityService) requireHost(ctx context.Context, callerID, activityID uuid.UUID) error {
	attendee, err := s.activityRepo.GetAttendee(ctx, callerID, activityID)
	if err != nil {
		return err
	}
	if attendee == nil || !attendee.IsHost {
		return ErrNotHost
	}
	return nil
}
