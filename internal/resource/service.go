package resource

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/reserva-app/reserva-backend/internal/pkg/storage"
)

// Photos are normalized to fit this bounding box before being stored.
const (
	photoMaxWidth  = 1600
	photoMaxHeight = 1600
)

type CreateRequest struct {
	Title       string
	Description string
	OwnerID     int64
}

type UpdateRequest struct {
	Title       *string
	Description *string
	IsBlocked   *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Resource, error)
	GetByID(ctx context.Context, id int64) (*Resource, error)
	List(ctx context.Context, filter Filter) ([]*Resource, int, error)
	Update(ctx context.Context, id int64, req UpdateRequest, actorID int64, isAdmin bool) (*Resource, error)
	Delete(ctx context.Context, id int64, actorID int64, isAdmin bool) error

	// CanMutate reports whether the actor may mutate records attached to the
	// resource (its schedules and unavailable slots).
	CanMutate(ctx context.Context, resourceID, actorID int64, isAdmin bool) error

	SetPhoto(ctx context.Context, id int64, content io.Reader, contentType string, actorID int64, isAdmin bool) (*Resource, error)
	GetPhoto(ctx context.Context, id int64) (io.ReadCloser, error)
}

type service struct {
	repo    Repository
	storage storage.Storage
	imgProc *storage.ImageProcessor
}

func NewService(repo Repository, store storage.Storage) Service {
	return &service{
		repo:    repo,
		storage: store,
		imgProc: storage.NewImageProcessor(),
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Resource, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}

	res := &Resource{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		OwnerID:     req.OwnerID,
	}

	if err := s.repo.Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*Resource, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Resource, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id int64, req UpdateRequest, actorID int64, isAdmin bool) (*Resource, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !isAdmin && res.OwnerID != actorID {
		return nil, ErrPermissionDenied
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, ErrTitleRequired
		}
		res.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		res.Description = *req.Description
	}
	if req.IsBlocked != nil {
		res.IsBlocked = *req.IsBlocked
	}

	if err := s.repo.Update(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) Delete(ctx context.Context, id int64, actorID int64, isAdmin bool) error {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !isAdmin && res.OwnerID != actorID {
		return ErrPermissionDenied
	}

	// Deleting a resource with live schedules, blocks or reservations is
	// rejected rather than cascaded.
	dependents, err := s.repo.CountDependents(ctx, id)
	if err != nil {
		return err
	}
	if dependents > 0 {
		return ErrHasDependents
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if res.PhotoPath != nil {
		_ = s.storage.Delete(ctx, *res.PhotoPath)
	}
	return nil
}

func (s *service) CanMutate(ctx context.Context, resourceID, actorID int64, isAdmin bool) error {
	// The resource must exist before any role is considered, so a missing id
	// is a not-found for admins too.
	res, err := s.repo.GetByID(ctx, resourceID)
	if err != nil {
		return err
	}

	if isAdmin {
		return nil
	}
	if res.OwnerID != actorID {
		return ErrPermissionDenied
	}
	return nil
}

func (s *service) SetPhoto(ctx context.Context, id int64, content io.Reader, contentType string, actorID int64, isAdmin bool) (*Resource, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !isAdmin && res.OwnerID != actorID {
		return nil, ErrPermissionDenied
	}

	if contentType != "image/jpeg" && contentType != "image/png" {
		return nil, ErrInvalidPhoto
	}

	normalized, err := s.imgProc.Normalize(content, photoMaxWidth, photoMaxHeight)
	if err != nil {
		return nil, ErrInvalidPhoto
	}

	path := fmt.Sprintf("resources/%d.jpg", id)
	if err := s.storage.Save(ctx, path, normalized); err != nil {
		return nil, fmt.Errorf("save resource photo failed: %w", err)
	}

	res.PhotoPath = &path
	if err := s.repo.Update(ctx, res); err != nil {
		_ = s.storage.Delete(ctx, path)
		return nil, err
	}
	return res, nil
}

func (s *service) GetPhoto(ctx context.Context, id int64) (io.ReadCloser, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.PhotoPath == nil {
		return nil, ErrNoPhoto
	}
	return s.storage.Get(ctx, *res.PhotoPath)
}
