package connection

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/campuslink24/campuslink-backend/internal/config"
	"github.com/campuslink24/campuslink-backend/internal/domain"
	"github.com/campuslink24/campuslink-backend/internal/repository"
	"github.com/campuslink24/campuslink-backend/internal/usecase/compat"
	"github.com/campuslink24/campuslink-backend/internal/usecase/nearby"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConnRepo mirrors the store semantics: canonical pairs, soft deletes,
// expiry filtering and duplicate detection.
type fakeConnRepo struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]*domain.Connection
}

func newFakeConnRepo() *fakeConnRepo {
	return &fakeConnRepo{nextID: 1, rows: make(map[int]*domain.Connection)}
}

func (f *fakeConnRepo) Create(ctx context.Context, conn *domain.Connection) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u1, u2 := domain.CanonicalPair(conn.User1ID, conn.User2ID)
	for _, row := range f.rows {
		if row.User1ID == u1 && row.User2ID == u2 && row.DeletedAt == nil {
			return &repository.DuplicatePairError{User1ID: u1, User2ID: u2}
		}
	}

	conn.ID = f.nextID
	f.nextID++
	conn.User1ID = u1
	conn.User2ID = u2
	conn.CreatedAt = time.Now()
	stored := *conn
	f.rows[conn.ID] = &stored
	return nil
}

func (f *fakeConnRepo) GetByID(ctx context.Context, id int) (*domain.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok || row.DeletedAt != nil {
		return nil, domain.ErrConnectionNotFound
	}
	out := *row
	return &out, nil
}

func (f *fakeConnRepo) GetActiveByUsers(ctx context.Context, userA, userB int, now time.Time) (*domain.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u1, u2 := domain.CanonicalPair(userA, userB)
	for _, row := range f.rows {
		if row.User1ID != u1 || row.User2ID != u2 || row.DeletedAt != nil {
			continue
		}
		if row.ExpiresAt != nil && !row.ExpiresAt.After(now) {
			continue
		}
		out := *row
		return &out, nil
	}
	return nil, domain.ErrConnectionNotFound
}

func (f *fakeConnRepo) UpdateLocked(ctx context.Context, id int, apply func(*domain.Connection) error) (*domain.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	row, ok := f.rows[id]
	if !ok || row.DeletedAt != nil {
		return nil, domain.ErrConnectionNotFound
	}

	working := *row
	if err := apply(&working); err != nil {
		return nil, err
	}
	f.rows[id] = &working
	out := working
	return &out, nil
}

func (f *fakeConnRepo) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, row := range f.rows {
		if row.DeletedAt != nil || row.ExpiresAt == nil || !row.ExpiresAt.Before(now) {
			continue
		}
		if row.User1Status == domain.StatusAccepted && row.User2Status == domain.StatusAccepted {
			continue
		}
		deletedAt := now
		row.DeletedAt = &deletedAt
		count++
	}
	return count, nil
}

func (f *fakeConnRepo) ListPendingFor(ctx context.Context, userID int, now time.Time) ([]*domain.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*domain.Connection
	for _, row := range f.rows {
		if row.DeletedAt != nil {
			continue
		}
		if row.ExpiresAt != nil && !row.ExpiresAt.After(now) {
			continue
		}
		status, ok := row.StatusOf(userID)
		if !ok || status != domain.StatusPending {
			continue
		}
		copied := *row
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeConnRepo) ListMutualFor(ctx context.Context, userID int) ([]*domain.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*domain.Connection
	for _, row := range f.rows {
		if row.DeletedAt != nil || !row.HasUser(userID) {
			continue
		}
		if row.User1Status != domain.StatusAccepted || row.User2Status != domain.StatusAccepted {
			continue
		}
		copied := *row
		out = append(out, &copied)
	}
	return out, nil
}

// expire backdates a stored row's expiry.
func (f *fakeConnRepo) expire(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	past := time.Now().Add(-time.Minute)
	f.rows[id].ExpiresAt = &past
}

type fakeLocationRepo struct {
	pings []domain.LocationPing
}

func (f *fakeLocationRepo) Create(ctx context.Context, ping *domain.LocationPing) error {
	ping.ID = len(f.pings) + 1
	ping.LastUpdated = time.Now()
	f.pings = append(f.pings, *ping)
	return nil
}

func (f *fakeLocationRepo) GetLatestByUser(ctx context.Context, userID int) (*domain.LocationPing, error) {
	for i := len(f.pings) - 1; i >= 0; i-- {
		if f.pings[i].UserID == userID {
			p := f.pings[i]
			return &p, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeLocationRepo) LatestActive(ctx context.Context, excludeUserID int) ([]domain.LocationPing, error) {
	return nil, nil
}

type fakeProfileRepo struct{}

func (f *fakeProfileRepo) Create(ctx context.Context, p *domain.Profile) error { return nil }
func (f *fakeProfileRepo) GetByID(ctx context.Context, id int) (*domain.Profile, error) {
	return nil, domain.ErrProfileNotFound
}
func (f *fakeProfileRepo) GetByUserID(ctx context.Context, userID int) (*domain.Profile, error) {
	return nil, domain.ErrProfileNotFound
}
func (f *fakeProfileRepo) Update(ctx context.Context, p *domain.Profile) error        { return nil }
func (f *fakeProfileRepo) Delete(ctx context.Context, id int) error                   { return nil }
func (f *fakeProfileRepo) LoadRelations(ctx context.Context, p *domain.Profile) error { return nil }
func (f *fakeProfileRepo) ReplaceRelations(ctx context.Context, profileID int, rels *repository.ProfileRelations) error {
	return nil
}
func (f *fakeProfileRepo) InterestIDs(ctx context.Context, userID int) ([]int, error) {
	return nil, nil
}
func (f *fakeProfileRepo) ClubIDs(ctx context.Context, userID int) ([]int, error) { return nil, nil }

type fakeFinder struct {
	results []nearby.NearbyUser
}

func (f *fakeFinder) FindNearby(ctx context.Context, userID int, lat, lon, radiusKm float64) ([]nearby.NearbyUser, error) {
	return f.results, nil
}

type fakeScorer struct {
	scores map[int]float64 // keyed by other user ID
	err    error
}

func (f *fakeScorer) FriendshipScore(ctx context.Context, userA, userB int) (*compat.ScoreBreakdown, error) {
	if f.err != nil {
		return nil, f.err
	}
	score := f.scores[userB]
	return &compat.ScoreBreakdown{FriendshipScore: score}, nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testConfig() config.MatchingConfig {
	return config.MatchingConfig{
		NearbyRadiusKm:     0.1,
		ConnectionTTL:      time.Hour,
		RecommendThreshold: 0.9,
		GateThreshold:      0.9,
	}
}

func newTestManager(repo *fakeConnRepo, finder proximityFinder, scorer compatScorer, cfg config.MatchingConfig) *Manager {
	return NewManager(repo, &fakeLocationRepo{}, &fakeProfileRepo{}, finder, scorer, nil, testLogger(), cfg)
}

func TestCreateRejectsSelfPair(t *testing.T) {
	m := newTestManager(newFakeConnRepo(), &fakeFinder{}, &fakeScorer{}, testConfig())
	_, err := m.Create(context.Background(), 7, 7)
	assert.ErrorIs(t, err, domain.ErrInvalidPair)
}

func TestCreateCanonicalizesAndIsIdempotent(t *testing.T) {
	repo := newFakeConnRepo()
	m := newTestManager(repo, &fakeFinder{}, &fakeScorer{}, testConfig())
	ctx := context.Background()

	first, err := m.Create(ctx, 9, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, first.User1ID)
	assert.Equal(t, 9, first.User2ID)
	assert.Equal(t, domain.StatusPending, first.User1Status)
	assert.Equal(t, domain.StatusPending, first.User2Status)
	require.NotNil(t, first.ExpiresAt)

	// Reversed order resolves to the same row.
	second, err := m.Create(ctx, 4, 9)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	require.Len(t, repo.rows, 1)
}

func TestCreateRecoversFromConcurrentInsert(t *testing.T) {
	repo := newFakeConnRepo()
	m := newTestManager(repo, &fakeFinder{}, &fakeScorer{}, testConfig())
	ctx := context.Background()

	// Simulate losing the race: the row appears after the existence check.
	winner := &domain.Connection{
		User1ID: 1, User2ID: 2,
		User1Status: domain.StatusPending, User2Status: domain.StatusPending,
	}
	expiry := time.Now().Add(time.Hour)
	winner.ExpiresAt = &expiry
	require.NoError(t, repo.Create(ctx, winner))

	conn, err := m.Create(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, conn.ID)
}

func TestCreateReplacesExpiredConnection(t *testing.T) {
	repo := newFakeConnRepo()
	m := newTestManager(repo, &fakeFinder{}, &fakeScorer{}, testConfig())
	ctx := context.Background()

	first, err := m.Create(ctx, 1, 2)
	require.NoError(t, err)
	repo.expire(first.ID)

	// The expired row is invisible; sweeping clears it so a fresh insert works.
	_, err = m.GetActive(ctx, 1, 2)
	assert.ErrorIs(t, err, domain.ErrConnectionNotFound)

	swept, err := m.SweepExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, swept)

	second, err := m.Create(ctx, 1, 2)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreateSweepsStaleRowBlockingThePair(t *testing.T) {
	repo := newFakeConnRepo()
	m := newTestManager(repo, &fakeFinder{}, &fakeScorer{}, testConfig())
	ctx := context.Background()

	first, err := m.Create(ctx, 1, 2)
	require.NoError(t, err)
	repo.expire(first.ID)

	// No explicit sweep: the stale row still holds the pair slot, and
	// Create has to clear it itself before inserting.
	second, err := m.Create(ctx, 1, 2)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, domain.StatusPending, second.User1Status)

	got, err := m.GetActive(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
}

func TestSetStatusValidation(t *testing.T) {
	repo := newFakeConnRepo()
	m := newTestManager(repo, &fakeFinder{}, &fakeScorer{}, testConfig())
	ctx := context.Background()

	conn, err := m.Create(ctx, 1, 2)
	require.NoError(t, err)

	_, err = m.SetStatus(ctx, conn.ID, 1, domain.StatusPending)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = m.SetStatus(ctx, conn.ID, 99, domain.StatusAccepted)
	assert.ErrorIs(t, err, domain.ErrNotAParty)

	_, err = m.SetStatus(ctx, 12345, 1, domain.StatusAccepted)
	assert.ErrorIs(t, err, domain.ErrConnectionNotFound)
}

func TestSetStatusMutualAcceptClearsExpiry(t *testing.T) {
	repo := newFakeConnRepo()
	m := newTestManager(repo, &fakeFinder{}, &fakeScorer{}, testConfig())
	ctx := context.Background()

	conn, err := m.Create(ctx, 1, 2)
	require.NoError(t, err)

	half, err := m.SetStatus(ctx, conn.ID, 1, domain.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, half.User1Status)
	assert.Equal(t, domain.StatusPending, half.User2Status)
	assert.NotNil(t, half.ExpiresAt)
	assert.False(t, half.IsMutual())

	full, err := m.SetStatus(ctx, conn.ID, 2, domain.StatusAccepted)
	require.NoError(t, err)
	assert.True(t, full.IsMutual())
	assert.Nil(t, full.ExpiresAt)

	mutual, err := m.ListMutual(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mutual, 1)
}

func TestSetStatusRejectsDoubleAnswer(t *testing.T) {
	repo := newFakeConnRepo()
	m := newTestManager(repo, &fakeFinder{}, &fakeScorer{}, testConfig())
	ctx := context.Background()

	conn, err := m.Create(ctx, 1, 2)
	require.NoError(t, err)

	_, err = m.SetStatus(ctx, conn.ID, 1, domain.StatusAccepted)
	require.NoError(t, err)

	_, err = m.SetStatus(ctx, conn.ID, 1, domain.StatusDeclined)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
}

func TestSetStatusDeclineHidesConnection(t *testing.T) {
	repo := newFakeConnRepo()
	m := newTestManager(repo, &fakeFinder{}, &fakeScorer{}, testConfig())
	ctx := context.Background()

	conn, err := m.Create(ctx, 1, 2)
	require.NoError(t, err)

	declined, err := m.SetStatus(ctx, conn.ID, 2, domain.StatusDeclined)
	require.NoError(t, err)
	assert.NotNil(t, declined.DeletedAt)

	_, err = m.GetActive(ctx, 1, 2)
	assert.ErrorIs(t, err, domain.ErrConnectionNotFound)

	pending, err := m.ListPending(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSetStatusExpiredConnection(t *testing.T) {
	repo := newFakeConnRepo()
	m := newTestManager(repo, &fakeFinder{}, &fakeScorer{}, testConfig())
	ctx := context.Background()

	conn, err := m.Create(ctx, 1, 2)
	require.NoError(t, err)
	repo.expire(conn.ID)

	_, err = m.SetStatus(ctx, conn.ID, 1, domain.StatusAccepted)
	assert.ErrorIs(t, err, domain.ErrConnectionNotFound)
}

func TestSweepSparesMutualConnections(t *testing.T) {
	repo := newFakeConnRepo()
	m := newTestManager(repo, &fakeFinder{}, &fakeScorer{}, testConfig())
	ctx := context.Background()

	mutual, err := m.Create(ctx, 1, 2)
	require.NoError(t, err)
	_, err = m.SetStatus(ctx, mutual.ID, 1, domain.StatusAccepted)
	require.NoError(t, err)
	_, err = m.SetStatus(ctx, mutual.ID, 2, domain.StatusAccepted)
	require.NoError(t, err)

	stale, err := m.Create(ctx, 1, 3)
	require.NoError(t, err)
	repo.expire(stale.ID)

	count, err := m.SweepExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// Sweeping again finds nothing.
	count, err = m.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	still, err := m.GetActive(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, mutual.ID, still.ID)
}

func TestListPendingFiltersBySide(t *testing.T) {
	repo := newFakeConnRepo()
	m := newTestManager(repo, &fakeFinder{}, &fakeScorer{}, testConfig())
	ctx := context.Background()

	conn, err := m.Create(ctx, 1, 2)
	require.NoError(t, err)
	_, err = m.SetStatus(ctx, conn.ID, 1, domain.StatusAccepted)
	require.NoError(t, err)

	// User 1 already answered; only user 2 still has it pending.
	forOne, err := m.ListPending(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, forOne)

	forTwo, err := m.ListPending(ctx, 2)
	require.NoError(t, err)
	require.Len(t, forTwo, 1)
}

func TestReportLocationCreatesConnections(t *testing.T) {
	repo := newFakeConnRepo()
	finder := &fakeFinder{results: []nearby.NearbyUser{
		{UserID: 2, DistanceKm: 0.05},
		{UserID: 3, DistanceKm: 0.08},
	}}
	m := newTestManager(repo, finder, &fakeScorer{}, testConfig())
	ctx := context.Background()

	ping, neighbors, err := m.ReportLocation(ctx, 1, 52.52, 13.405, true)
	require.NoError(t, err)
	require.NotNil(t, ping)
	assert.Len(t, neighbors, 2)

	for _, other := range []int{2, 3} {
		conn, err := m.GetActive(ctx, 1, other)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, conn.User1Status)
	}
}

func TestReportLocationGateDisabledIgnoresScore(t *testing.T) {
	repo := newFakeConnRepo()
	finder := &fakeFinder{results: []nearby.NearbyUser{{UserID: 2}}}
	scorer := &fakeScorer{scores: map[int]float64{2: 0.1}}
	m := newTestManager(repo, finder, scorer, testConfig())

	_, _, err := m.ReportLocation(context.Background(), 1, 52.52, 13.405, true)
	require.NoError(t, err)

	_, err = m.GetActive(context.Background(), 1, 2)
	assert.NoError(t, err)
}

func TestReportLocationGateEnabled(t *testing.T) {
	repo := newFakeConnRepo()
	finder := &fakeFinder{results: []nearby.NearbyUser{
		{UserID: 2},
		{UserID: 3},
	}}
	scorer := &fakeScorer{scores: map[int]float64{2: 0.95, 3: 0.1}}
	cfg := testConfig()
	cfg.GateEnabled = true
	m := newTestManager(repo, finder, scorer, cfg)
	ctx := context.Background()

	_, _, err := m.ReportLocation(ctx, 1, 52.52, 13.405, true)
	require.NoError(t, err)

	_, err = m.GetActive(ctx, 1, 2)
	assert.NoError(t, err)

	_, err = m.GetActive(ctx, 1, 3)
	assert.ErrorIs(t, err, domain.ErrConnectionNotFound)
}

func TestReportLocationGatePassesOnInsufficientData(t *testing.T) {
	repo := newFakeConnRepo()
	finder := &fakeFinder{results: []nearby.NearbyUser{{UserID: 2}}}
	scorer := &fakeScorer{err: domain.ErrInsufficientData}
	cfg := testConfig()
	cfg.GateEnabled = true
	m := newTestManager(repo, finder, scorer, cfg)

	_, _, err := m.ReportLocation(context.Background(), 1, 52.52, 13.405, true)
	require.NoError(t, err)

	_, err = m.GetActive(context.Background(), 1, 2)
	assert.NoError(t, err)
}
