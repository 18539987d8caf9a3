package activity

import "context"

// Repository persists custom activities per owner. Implementations live in
// internal/infra/customrepo.
type Repository interface {
	List(ctx context.Context, ownerID string) ([]Activity, error)
	Get(ctx context.Context, ownerID, id string) (Activity, bool, error)
	Save(ctx context.Context, ownerID string, item Activity) error
	Delete(ctx context.Context, ownerID, id string) (bool, error)
}
