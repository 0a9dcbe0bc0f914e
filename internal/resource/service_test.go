package resource

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	Repository
	resources map[int64]*Resource
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*Resource, error) {
	res, ok := f.resources[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *res
	return &cp, nil
}

func (f *fakeRepo) WithTx(pgx.Tx) Repository { return f }

func TestCanMutate(t *testing.T) {
	repo := &fakeRepo{resources: map[int64]*Resource{
		1: {ID: 1, Title: "Quadra 1", OwnerID: 10},
	}}
	svc := NewService(repo, nil)
	ctx := context.Background()

	tests := []struct {
		name       string
		resourceID int64
		actorID    int64
		isAdmin    bool
		wantErr    error
	}{
		{name: "owner", resourceID: 1, actorID: 10},
		{name: "admin", resourceID: 1, actorID: 99, isAdmin: true},
		{name: "stranger", resourceID: 1, actorID: 99, wantErr: ErrPermissionDenied},
		{name: "missing resource", resourceID: 2, actorID: 10, wantErr: ErrNotFound},
		// Existence is checked before the role, so admins get a not-found
		// rather than sailing through to a foreign key violation.
		{name: "admin with missing resource", resourceID: 2, actorID: 99, isAdmin: true, wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CanMutate(ctx, tt.resourceID, tt.actorID, tt.isAdmin)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
