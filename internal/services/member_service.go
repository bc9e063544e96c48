package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/portersclub/members-api/internal/models"
)

// MemberRepository defines the interface for member data access
type MemberRepository interface {
	List(ctx context.Context, filter models.MemberFilter) ([]*models.Member, error)
	GetByID(ctx context.Context, id int64) (*models.Member, error)
	GetTrashByID(ctx context.Context, id int64) (*models.Member, error)
	Create(ctx context.Context, member *models.Member) (*models.Member, error)
	Update(ctx context.Context, id int64, member *models.Member) (*models.Member, error)
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
	PermanentDelete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*models.MemberStats, error)
}

// MemberService handles member business logic
type MemberService struct {
	repo   MemberRepository
	logger *slog.Logger
}

// NewMemberService creates a new MemberService
func NewMemberService(repo MemberRepository, logger *slog.Logger) *MemberService {
	return &MemberService{
		repo:   repo,
		logger: logger,
	}
}

// List retrieves members matching the filter. No match is an empty slice.
func (s *MemberService) List(ctx context.Context, filter models.MemberFilter) ([]*models.Member, error) {
	members, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list members", slog.Bool("trash", filter.Trash), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return members, nil
}

// GetByID retrieves an active member by id
func (s *MemberService) GetByID(ctx context.Context, id int64) (*models.Member, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("member not found", slog.Int64("member_id", id))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get member", slog.Int64("member_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return member, nil
}

// Create inserts a new active member
func (s *MemberService) Create(ctx context.Context, member *models.Member) (*models.Member, error) {
	created, err := s.repo.Create(ctx, member)
	if err != nil {
		s.logger.Error("failed to create member", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("member created", slog.Int64("member_id", created.ID))
	return created, nil
}

// Update replaces the named fields of an active member
func (s *MemberService) Update(ctx context.Context, id int64, member *models.Member) (*models.Member, error) {
	updated, err := s.repo.Update(ctx, id, member)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("member not found", slog.Int64("member_id", id))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to update member", slog.Int64("member_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("member updated", slog.Int64("member_id", id))
	return updated, nil
}

// SoftDelete moves a member to the trash table
func (s *MemberService) SoftDelete(ctx context.Context, id int64) error {
	err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("member not found", slog.Int64("member_id", id))
			return models.ErrNotFound
		}
		s.logger.Error("failed to soft delete member", slog.Int64("member_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("member moved to trash", slog.Int64("member_id", id))
	return nil
}

// Restore moves a member from the trash table back to the active table
func (s *MemberService) Restore(ctx context.Context, id int64) error {
	err := s.repo.Restore(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("trash member not found", slog.Int64("member_id", id))
			return models.ErrNotFound
		}
		s.logger.Error("failed to restore member", slog.Int64("member_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("member restored", slog.Int64("member_id", id))
	return nil
}

// PermanentDelete removes a trash member for good
func (s *MemberService) PermanentDelete(ctx context.Context, id int64) error {
	err := s.repo.PermanentDelete(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("trash member not found", slog.Int64("member_id", id))
			return models.ErrNotFound
		}
		s.logger.Error("failed to permanently delete member", slog.Int64("member_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("member permanently deleted", slog.Int64("member_id", id))
	return nil
}

// Stats returns aggregate counts over the active table
func (s *MemberService) Stats(ctx context.Context) (*models.MemberStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		s.logger.Error("failed to aggregate member stats", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return stats, nil
}
