package activity

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	apperrors "github.com/yanqian/pocket-activities/pkg/errors"
)

const (
	minNameLength  = 2
	maxNameLength  = 50
	minDuration    = 1
	maxDuration    = 24 * 60
	customIDPrefix = "custom-"
)

// Draft is the user-submitted form for a custom activity.
type Draft struct {
	Name            string      `json:"name"`
	DurationMinutes int         `json:"durationMinutes"`
	DaylightNeeded  bool        `json:"daylightNeeded"`
	EnergyLevel     EnergyLevel `json:"energyLevel,omitempty"`
}

// CustomService manages an owner's custom activities.
type CustomService interface {
	List(ctx context.Context, ownerID string) ([]Activity, error)
	Get(ctx context.Context, ownerID, id string) (Activity, error)
	Create(ctx context.Context, ownerID string, draft Draft) (Activity, error)
	Update(ctx context.Context, ownerID, id string, draft Draft) (Activity, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type customService struct {
	repo   Repository
	logger *slog.Logger
	newID  func() string
}

// NewCustomService wires the custom activity catalogue.
func NewCustomService(repo Repository, logger *slog.Logger) CustomService {
	return &customService{
		repo:   repo,
		logger: logger.With("component", "activity.custom"),
		newID:  func() string { return customIDPrefix + uuid.NewString() },
	}
}

func (s *customService) List(ctx context.Context, ownerID string) ([]Activity, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "owner id cannot be empty", nil)
	}
	items, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageError, "failed to list custom activities", err)
	}
	return items, nil
}

func (s *customService) Get(ctx context.Context, ownerID, id string) (Activity, error) {
	item, found, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return Activity{}, apperrors.Wrap(apperrors.CodeStorageError, "failed to load custom activity", err)
	}
	if !found {
		return Activity{}, apperrors.Wrap(apperrors.CodeNotFound, "custom activity not found", nil)
	}
	return item, nil
}

func (s *customService) Create(ctx context.Context, ownerID string, draft Draft) (Activity, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Activity{}, apperrors.Wrap(apperrors.CodeInvalidInput, "owner id cannot be empty", nil)
	}
	clean, err := ValidateDraft(draft)
	if err != nil {
		return Activity{}, err
	}
	item := clean.toActivity(s.newID())
	if err := s.repo.Save(ctx, ownerID, item); err != nil {
		return Activity{}, apperrors.Wrap(apperrors.CodeStorageError, "failed to save custom activity", err)
	}
	s.logger.Info("custom activity created", "owner", ownerID, "id", item.ID)
	return item, nil
}

func (s *customService) Update(ctx context.Context, ownerID, id string, draft Draft) (Activity, error) {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return Activity{}, err
	}
	clean, err := ValidateDraft(draft)
	if err != nil {
		return Activity{}, err
	}
	item := clean.toActivity(id)
	if err := s.repo.Save(ctx, ownerID, item); err != nil {
		return Activity{}, apperrors.Wrap(apperrors.CodeStorageError, "failed to save custom activity", err)
	}
	return item, nil
}

func (s *customService) Delete(ctx context.Context, ownerID, id string) error {
	removed, err := s.repo.Delete(ctx, ownerID, id)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorageError, "failed to delete custom activity", err)
	}
	if !removed {
		return apperrors.Wrap(apperrors.CodeNotFound, "custom activity not found", nil)
	}
	s.logger.Info("custom activity deleted", "owner", ownerID, "id", id)
	return nil
}

// ValidateDraft rejects drafts that must never enter the data model.
func ValidateDraft(draft Draft) (Draft, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	switch n := utf8.RuneCountInString(draft.Name); {
	case n < minNameLength:
		return Draft{}, apperrors.Wrap(apperrors.CodeInvalidInput, "activity name must be at least 2 characters", nil)
	case n > maxNameLength:
		return Draft{}, apperrors.Wrap(apperrors.CodeInvalidInput, "activity name must not exceed 50 characters", nil)
	}
	if draft.DurationMinutes < minDuration {
		return Draft{}, apperrors.Wrap(apperrors.CodeInvalidInput, "duration must be at least 1 minute", nil)
	}
	if draft.DurationMinutes > maxDuration {
		return Draft{}, apperrors.Wrap(apperrors.CodeInvalidInput, "duration must not exceed 1440 minutes", nil)
	}
	if !draft.EnergyLevel.Valid() {
		return Draft{}, apperrors.Wrap(apperrors.CodeInvalidInput, "energy level must be low, medium or high", nil)
	}
	return draft, nil
}

func (d Draft) toActivity(id string) Activity {
	return Activity{
		ID:              id,
		Name:            d.Name,
		DurationMinutes: d.DurationMinutes,
		DaylightNeeded:  d.DaylightNeeded,
		IsCustom:        true,
		EnergyLevel:     d.EnergyLevel,
	}
}
