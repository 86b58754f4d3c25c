package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/reactivities-app/backend/internal/assets"
	"github.com/reactivities-app/backend/internal/domain"
	"github.com/reactivities-app/backend/internal/observability"
	"github.com/reactivities-app/backend/internal/repository"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrCannotFollowSelf = errors.New("cannot follow yourself")
	ErrPhotoNotFound    = errors.New("photo not found")
	ErrNotPhotoOwner    = errors.New("only the photo owner can perform this action")
	ErrMainPhoto        = errors.New("cannot delete the main photo")
)

type ProfileService struct {
	userRepo     repository.UserRepository
	followRepo   repository.FollowingRepository
	photoRepo    repository.PhotoRepository
	activityRepo repository.ActivityRepository
	assetStore   assets.Store
}

func NewProfileService(
	userRepo repository.UserRepository,
	followRepo repository.FollowingRepository,
	photoRepo repository.PhotoRepository,
	activityRepo repository.ActivityRepository,
	assetStore assets.Store,
) *ProfileService {
	return &ProfileService{
		userRepo:     userRepo,
		followRepo:   followRepo,
		photoRepo:    photoRepo,
		activityRepo: activityRepo,
		assetStore:   assetStore,
	}
}

type EditProfileInput struct {
	DisplayName string  `json:"display_name"`
	Bio         *string `json:"bio,omitempty"`
}

type AddPhotoInput struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// Get returns a user's public profile annotated for the caller.
// callerID may be uuid.Nil for anonymous viewers.
func (s *ProfileService) Get(ctx context.Context, callerID, userID uuid.UUID) (*domain.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	followers, following, err := s.followRepo.Counts(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &domain.Profile{
		ID:             user.ID,
		DisplayName:    user.DisplayName,
		Bio:            user.Bio,
		ImageURL:       user.ImageURL,
		FollowersCount: followers,
		FollowingCount: following,
	}

	if callerID != uuid.Nil && callerID != userID {
		edge, err := s.followRepo.Get(ctx, callerID, userID)
		if err != nil {
			return nil, err
		}
		profile.Following = edge != nil
	}

	return profile, nil
}

func (s *ProfileService) Edit(ctx context.Context, userID uuid.UUID, input EditProfileInput) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := s.userRepo.UpdateProfile(ctx, userID, input.DisplayName, input.Bio); err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}
	return nil
}

// ToggleFollow follows the target if no edge exists, unfollows otherwise.
// Toggling twice restores the original state.
func (s *ProfileService) ToggleFollow(ctx context.Context, observerID, targetID uuid.UUID) error {
	if observerID == targetID {
		return ErrCannotFollowSelf
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}

	edge, err := s.followRepo.Get(ctx, observerID, targetID)
	if err != nil {
		return err
	}

	if edge != nil {
		if err := s.followRepo.Delete(ctx, observerID, targetID); err != nil {
			return fmt.Errorf("unfollowing: %w", err)
		}
		observability.IncFollowToggles("unfollow")
		return nil
	}

	err = s.followRepo.Create(ctx, &domain.UserFollowing{
		ObserverID:   observerID,
		TargetID:     targetID,
		DateFollowed: time.Now().UTC(),
	})
	if errors.Is(err, repository.ErrDuplicate) {
		// A concurrent toggle already created the edge; not a fault.
		return nil
	}
	if err != nil {
		return fmt.Errorf("following: %w", err)
	}
	observability.IncFollowToggles("follow")
	return nil
}

func (s *ProfileService) ListFollowers(ctx context.Context, userID uuid.UUID) ([]domain.Profile, error) {
	profiles, err := s.followRepo.ListFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []domain.Profile{}
	}
	return profiles, nil
}

func (s *ProfileService) ListFollowing(ctx context.Context, userID uuid.UUID) ([]domain.Profile, error) {
	profiles, err := s.followRepo.ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []domain.Profile{}
	}
	return profiles, nil
}

// ListActivities returns the activities a user attends, by date. Filter is
// "past", "hosting" or anything else for upcoming (the default).
func (s *ProfileService) ListActivities(ctx context.Context, userID uuid.UUID, filter string) ([]domain.Activity, error) {
	activities, err := s.activityRepo.ListByUser(ctx, userID, filter, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if activities == nil {
		activities = []domain.Activity{}
	}
	return activities, nil
}

func (s *ProfileService) AddPhoto(ctx context.Context, userID uuid.UUID, input AddPhotoInput) (*domain.Photo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	photo := &domain.Photo{
		ID:        uuid.New(),
		UserID:    userID,
		URL:       input.URL,
		PublicID:  input.PublicID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.photoRepo.Create(ctx, photo); err != nil {
		return nil, fmt.Errorf("creating photo: %w", err)
	}

	// First photo becomes the profile image.
	if user.ImageURL == nil {
		if err := s.userRepo.SetImageURL(ctx, userID, photo.URL); err != nil {
			return nil, fmt.Errorf("setting profile image: %w", err)
		}
	}

	return photo, nil
}

func (s *ProfileService) ListPhotos(ctx context.Context, userID uuid.UUID) ([]domain.Photo, error) {
	photos, err := s.photoRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if photos == nil {
		photos = []domain.Photo{}
	}
	return photos, nil
}

// DeletePhoto removes an owned photo. The photo backing the profile image
// cannot be deleted; the remote asset is destroyed before the row goes.
func (s *ProfileService) DeletePhoto(ctx context.Context, userID, photoID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	if photo == nil {
		return ErrPhotoNotFound
	}
	if photo.UserID != userID {
		return ErrNotPhotoOwner
	}
	if user.ImageURL != nil && photo.URL == *user.ImageURL {
		return ErrMainPhoto
	}

	if err := s.assetStore.Delete(ctx, photo.PublicID); err != nil {
		return fmt.Errorf("deleting remote asset: %w", err)
	}

	if err := s.photoRepo.Delete(ctx, photoID); err != nil {
		return fmt.Errorf("deleting photo: %w", err)
	}
	return nil
}

func (s *ProfileService) SetMainPhoto(ctx context.Context, userID, photoID uuid.UUID) error {
	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	if photo == nil {
		return ErrPhotoNotFound
	}
	if photo.UserID != userID {
		return ErrNotPhotoOwner
	}

	if err := s.userRepo.SetImageURL(ctx, userID, photo.URL); err != nil {
		return fmt.Errorf("setting profile image: %w", err)
	}
	return nil
}
