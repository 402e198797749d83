// Package connection manages the per-pair connection state machine:
// creation, mutual confirmation, decline and time expiry.
package connection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campuslink24/campuslink-backend/internal/config"
	"github.com/campuslink24/campuslink-backend/internal/domain"
	"github.com/campuslink24/campuslink-backend/internal/infrastructure/gemini"
	"github.com/campuslink24/campuslink-backend/internal/repository"
	"github.com/campuslink24/campuslink-backend/internal/usecase/compat"
	"github.com/campuslink24/campuslink-backend/internal/usecase/nearby"
	"github.com/sirupsen/logrus"
)

// compatScorer gates proximity-triggered creation when enabled.
type compatScorer interface {
	FriendshipScore(ctx context.Context, userA, userB int) (*compat.ScoreBreakdown, error)
}

type proximityFinder interface {
	FindNearby(ctx context.Context, userID int, lat, lon, radiusKm float64) ([]nearby.NearbyUser, error)
}

type Manager struct {
	connRepo     repository.ConnectionRepository
	locationRepo repository.LocationRepository
	profileRepo  repository.ProfileRepository
	finder       proximityFinder
	scorer       compatScorer
	geminiClient *gemini.Client
	logger       *logrus.Logger
	cfg          config.MatchingConfig
}

func NewManager(
	connRepo repository.ConnectionRepository,
	locationRepo repository.LocationRepository,
	profileRepo repository.ProfileRepository,
	finder proximityFinder,
	scorer compatScorer,
	geminiClient *gemini.Client,
	logger *logrus.Logger,
	cfg config.MatchingConfig,
) *Manager {
	return &Manager{
		connRepo:     connRepo,
		locationRepo: locationRepo,
		profileRepo:  profileRepo,
		finder:       finder,
		scorer:       scorer,
		geminiClient: geminiClient,
		logger:       logger,
		cfg:          cfg,
	}
}

// GetActive fetches the active connection for a pair, accepting the users
// in either order.
func (m *Manager) GetActive(ctx context.Context, userA, userB int) (*domain.Connection, error) {
	return m.connRepo.GetActiveByUsers(ctx, userA, userB, time.Now())
}

// Create creates a pending connection between two users. Idempotent: an
// existing active connection is returned unchanged, including when a
// concurrent insert wins the race.
func (m *Manager) Create(ctx context.Context, userA, userB int) (*domain.Connection, error) {
	if userA == userB {
		return nil, domain.ErrInvalidPair
	}

	now := time.Now()
	existing, err := m.connRepo.GetActiveByUsers(ctx, userA, userB, now)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrConnectionNotFound) {
		return nil, err
	}

	expiresAt := now.Add(m.cfg.ConnectionTTL)
	conn := &domain.Connection{
		User1ID:     userA,
		User2ID:     userB,
		User1Status: domain.StatusPending,
		User2Status: domain.StatusPending,
		ExpiresAt:   &expiresAt,
	}

	err = m.connRepo.Create(ctx, conn)
	if err != nil {
		var dup *repository.DuplicatePairError
		if errors.As(err, &dup) {
			// Lost a concurrent create; the existing row wins.
			existing, ferr := m.connRepo.GetActiveByUsers(ctx, userA, userB, now)
			if ferr == nil {
				return existing, nil
			}
			if !errors.Is(ferr, domain.ErrConnectionNotFound) {
				return nil, ferr
			}
			// The blocking row is expired but not yet swept. Clear it and
			// retry once.
			if _, serr := m.connRepo.SweepExpired(ctx, now); serr != nil {
				return nil, fmt.Errorf("failed to sweep before retry: %w", serr)
			}
			if rerr := m.connRepo.Create(ctx, conn); rerr != nil {
				return nil, fmt.Errorf("failed to create connection: %w", rerr)
			}
			return conn, nil
		}
		return nil, fmt.Errorf("failed to create connection: %w", err)
	}
	return conn, nil
}

// SetStatus records one side's accept or decline. Declining soft-deletes
// the connection; mutual acceptance clears its expiry, making it permanent.
func (m *Manager) SetStatus(ctx context.Context, connectionID, userID int, status domain.ConnectionStatus) (*domain.Connection, error) {
	if status != domain.StatusAccepted && status != domain.StatusDeclined {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	conn, err := m.connRepo.UpdateLocked(ctx, connectionID, func(c *domain.Connection) error {
		if !c.HasUser(userID) {
			return domain.ErrNotAParty
		}
		if c.IsExpired(now) {
			return domain.ErrConnectionNotFound
		}

		current, _ := c.StatusOf(userID)
		if current != domain.StatusPending {
			return domain.ErrInvalidStatusTransition
		}

		if c.User1ID == userID {
			c.User1Status = status
		} else {
			c.User2Status = status
		}

		if status == domain.StatusDeclined {
			deletedAt := now
			c.DeletedAt = &deletedAt
			return nil
		}
		if c.IsMutual() {
			c.ExpiresAt = nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if conn.IsMutual() {
		go m.enrichMutualConnection(context.WithoutCancel(ctx), conn)
	}
	return conn, nil
}

// SweepExpired soft-deletes every past-expiry non-mutual connection and
// returns the number affected. Scheduling is the caller's concern.
func (m *Manager) SweepExpired(ctx context.Context) (int64, error) {
	count, err := m.connRepo.SweepExpired(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired connections: %w", err)
	}
	if count > 0 {
		m.logger.WithField("count", count).Info("swept expired connections")
	}
	return count, nil
}

// ListPending lists connections where the given user's side is still
// pending and the connection has not expired.
func (m *Manager) ListPending(ctx context.Context, userID int) ([]*domain.Connection, error) {
	return m.connRepo.ListPendingFor(ctx, userID, time.Now())
}

// ListMutual lists the user's mutually accepted connections.
func (m *Manager) ListMutual(ctx context.Context, userID int) ([]*domain.Connection, error) {
	return m.connRepo.ListMutualFor(ctx, userID)
}

// ReportLocation persists a ping, then connects the reporter with every
// nearby user that has no active connection yet. Creation failures are
// logged and skipped; the ping itself always succeeds or fails alone.
func (m *Manager) ReportLocation(ctx context.Context, userID int, lat, lon float64, isActive bool) (*domain.LocationPing, []nearby.NearbyUser, error) {
	ping := &domain.LocationPing{
		UserID:    userID,
		Latitude:  lat,
		Longitude: lon,
		IsActive:  isActive,
	}
	if err := m.locationRepo.Create(ctx, ping); err != nil {
		return nil, nil, fmt.Errorf("failed to persist location ping: %w", err)
	}

	neighbors, err := m.finder.FindNearby(ctx, userID, lat, lon, m.cfg.NearbyRadiusKm)
	if err != nil {
		return nil, nil, err
	}

	for _, neighbor := range neighbors {
		if m.cfg.GateEnabled && !m.passesGate(ctx, userID, neighbor.UserID) {
			continue
		}
		if _, err := m.Create(ctx, userID, neighbor.UserID); err != nil {
			m.logger.WithError(err).WithFields(logrus.Fields{
				"user_id":  userID,
				"other_id": neighbor.UserID,
			}).Warn("failed to create proximity connection")
		}
	}

	return ping, neighbors, nil
}

// passesGate consults the compatibility scorer. Pairs without enough shared
// answers pass: a brand-new user must still be connectable.
func (m *Manager) passesGate(ctx context.Context, userID, otherID int) bool {
	breakdown, err := m.scorer.FriendshipScore(ctx, userID, otherID)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientData) {
			return true
		}
		m.logger.WithError(err).Warn("compatibility gate check failed, allowing connection")
		return true
	}
	return breakdown.FriendshipScore > m.cfg.GateThreshold
}

// enrichMutualConnection generates icebreakers for a fresh mutual
// connection. Best effort: failures are logged, never surfaced.
func (m *Manager) enrichMutualConnection(ctx context.Context, conn *domain.Connection) {
	if m.geminiClient == nil {
		return
	}

	interests1, err := m.interestNames(ctx, conn.User1ID)
	if err != nil {
		m.logger.WithError(err).Warn("failed to load interests for icebreakers")
		return
	}
	interests2, err := m.interestNames(ctx, conn.User2ID)
	if err != nil {
		m.logger.WithError(err).Warn("failed to load interests for icebreakers")
		return
	}

	icebreakers, err := m.geminiClient.GenerateIcebreakers(ctx, interests1, interests2)
	if err != nil {
		m.logger.WithError(err).Warn("icebreaker generation failed")
		return
	}
	m.logger.WithFields(logrus.Fields{
		"connection_id": conn.ID,
		"icebreakers":   icebreakers,
	}).Info("generated icebreakers for mutual connection")
}

func (m *Manager) interestNames(ctx context.Context, userID int) ([]string, error) {
	profile, err := m.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := m.profileRepo.LoadRelations(ctx, profile); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(profile.Interests))
	for _, interest := range profile.Interests {
		names = append(names, interest.Name)
	}
	return names, nil
}
