package activity

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/pocket-activities/pkg/errors"
)

func TestValidateDraft(t *testing.T) {
	tests := []struct {
		name    string
		draft   Draft
		wantErr bool
	}{
		{"valid", Draft{Name: "Go for a walk", DurationMinutes: 30}, false},
		{"trimmed name too short", Draft{Name: "  a ", DurationMinutes: 30}, true},
		{"name at limit", Draft{Name: strings.Repeat("x", 50), DurationMinutes: 30}, false},
		{"name too long", Draft{Name: strings.Repeat("x", 51), DurationMinutes: 30}, true},
		{"zero duration", Draft{Name: "Nap", DurationMinutes: 0}, true},
		{"full day", Draft{Name: "Road trip", DurationMinutes: 1440}, false},
		{"over a day", Draft{Name: "Road trip", DurationMinutes: 1441}, true},
		{"bad energy", Draft{Name: "Yoga", DurationMinutes: 20, EnergyLevel: "extreme"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateDraft(tc.draft)
			if tc.wantErr {
				require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCustomServiceLifecycle(t *testing.T) {
	repo := newStubRepo()
	svc := newTestCustomService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, "owner-1", Draft{Name: " Gardening ", DurationMinutes: 60, DaylightNeeded: true})
	require.NoError(t, err)
	require.Equal(t, "custom-1", created.ID)
	require.Equal(t, "Gardening", created.Name)
	require.True(t, created.IsCustom)

	updated, err := svc.Update(ctx, "owner-1", created.ID, Draft{Name: "Weeding", DurationMinutes: 45})
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.False(t, updated.DaylightNeeded)

	items, err := svc.List(ctx, "owner-1")
	require.NoError(t, err)
	require.Equal(t, []Activity{updated}, items)

	others, err := svc.List(ctx, "owner-2")
	require.NoError(t, err)
	require.Empty(t, others)

	require.NoError(t, svc.Delete(ctx, "owner-1", created.ID))
	err = svc.Delete(ctx, "owner-1", created.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestCustomServiceRejectsInvalidDraft(t *testing.T) {
	repo := newStubRepo()
	svc := newTestCustomService(repo)

	_, err := svc.Create(context.Background(), "owner-1", Draft{Name: "x", DurationMinutes: 10})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.Zero(t, repo.saves)
}

func TestCustomServiceStorageFailure(t *testing.T) {
	repo := newStubRepo()
	repo.err = errors.New("disk full")
	svc := newTestCustomService(repo)

	_, err := svc.Create(context.Background(), "owner-1", Draft{Name: "Juggling", DurationMinutes: 10})
	require.True(t, apperrors.IsCode(err, apperrors.CodeStorageError))
}

func newTestCustomService(repo Repository) *customService {
	seq := 0
	return &customService{
		repo:   repo,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID: func() string {
			seq++
			return customIDPrefix + string(rune('0'+seq))
		},
	}
}

type stubRepo struct {
	items map[string][]Activity
	saves int
	err   error
}

func newStubRepo() *stubRepo {
	return &stubRepo{items: make(map[string][]Activity)}
}

func (r *stubRepo) List(_ context.Context, ownerID string) ([]Activity, error) {
	return append([]Activity(nil), r.items[ownerID]...), nil
}

func (r *stubRepo) Get(_ context.Context, ownerID, id string) (Activity, bool, error) {
	for _, item := range r.items[ownerID] {
		if item.ID == id {
			return item, true, nil
		}
	}
	return Activity{}, false, nil
}

func (r *stubRepo) Save(_ context.Context, ownerID string, item Activity) error {
	if r.err != nil {
		return r.err
	}
	r.saves++
	list := r.items[ownerID]
	for i := range list {
		if list[i].ID == item.ID {
			list[i] = item
			return nil
		}
	}
	r.items[ownerID] = append(list, item)
	return nil
}

func (r *stubRepo) Delete(_ context.Context, ownerID, id string) (bool, error) {
	list := r.items[ownerID]
	for i := range list {
		if list[i].ID == id {
			r.items[ownerID] = append(list[:i], list[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
