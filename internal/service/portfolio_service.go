package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/investifai/investif/internal/model"
	"github.com/investifai/investif/internal/portfoliosync"
	"github.com/investifai/investif/internal/repository"
)

// PortfolioService is the Portfolio Store: the durable per-user position
// documents. Every successful write publishes a fresh snapshot to the hub.
type PortfolioService struct {
	positionRepo *repository.PositionRepository
	hub          *portfoliosync.Hub
	now          func() time.Time
	logger       *slog.Logger
}

// NewPortfolioService creates a new PortfolioService.
func NewPortfolioService(positionRepo *repository.PositionRepository, hub *portfoliosync.Hub, logger *slog.Logger) *PortfolioService {
	return &PortfolioService{
		positionRepo: positionRepo,
		hub:          hub,
		now:          time.Now,
		logger:       logger,
	}
}

// GetPositions returns the stored positions of userID.
func (s *PortfolioService) GetPositions(ctx context.Context, userID string) ([]model.Position, error) {
	return s.positionRepo.GetPositions(ctx, userID)
}

// SavePosition merges p into the user's document.
func (s *PortfolioService) SavePosition(ctx context.Context, userID string, p model.Position) error {
	if err := s.positionRepo.UpsertPosition(ctx, userID, p); err != nil {
		return err
	}
	s.publish(ctx, userID)
	return nil
}

// DeletePosition removes ticker from the user's document.
func (s *PortfolioService) DeletePosition(ctx context.Context, userID, ticker string) error {
	if err := s.positionRepo.DeletePosition(ctx, userID, ticker); err != nil {
		return err
	}
	s.publish(ctx, userID)
	return nil
}

// Snapshot returns the user's current document stamped with the server time.
func (s *PortfolioService) Snapshot(ctx context.Context, userID string) (model.Snapshot, error) {
	positions, err := s.positionRepo.GetPositions(ctx, userID)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return model.Snapshot{UserID: userID, Positions: positions, UpdatedAt: s.now()}, nil
}

// Subscribe opens a snapshot subscription for userID.
func (s *PortfolioService) Subscribe(userID string) *portfoliosync.Subscription {
	return s.hub.Subscribe(userID)
}

func (s *PortfolioService) publish(ctx context.Context, userID string) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to publish portfolio snapshot", "user_id", userID, "error", err)
		return
	}
	n := s.hub.Publish(snap)
	s.logger.Debug("portfolio snapshot published", "user_id", userID, "positions", len(snap.Positions), "subscribers", n)
}
