package nearby

import (
	"context"
	"testing"
	"time"

	"github.com/campuslink24/campuslink-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLocationRepo struct {
	latest []domain.LocationPing
}

func (f *fakeLocationRepo) Create(ctx context.Context, ping *domain.LocationPing) error {
	return nil
}

func (f *fakeLocationRepo) GetLatestByUser(ctx context.Context, userID int) (*domain.LocationPing, error) {
	return nil, domain.ErrUserNotFound
}

func (f *fakeLocationRepo) LatestActive(ctx context.Context, excludeUserID int) ([]domain.LocationPing, error) {
	out := make([]domain.LocationPing, 0, len(f.latest))
	for _, p := range f.latest {
		if p.UserID != excludeUserID {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestDistanceKmIdenticalPoints(t *testing.T) {
	// Rounding can push the acos argument past 1; the result must be a
	// clean zero, not NaN.
	d := DistanceKm(52.5200, 13.4050, 52.5200, 13.4050)
	assert.Equal(t, 0.0, d)
}

func TestDistanceKmKnownDistance(t *testing.T) {
	// Berlin to Potsdam city centers, roughly 27 km apart.
	d := DistanceKm(52.5200, 13.4050, 52.3906, 13.0645)
	assert.InDelta(t, 27.0, d, 2.0)
}

func TestDistanceKmSymmetric(t *testing.T) {
	d1 := DistanceKm(48.8566, 2.3522, 51.5074, -0.1278)
	d2 := DistanceKm(51.5074, -0.1278, 48.8566, 2.3522)
	assert.InDelta(t, d1, d2, 1e-9)
}

func TestFindNearbyFiltersAndSorts(t *testing.T) {
	base := time.Now()
	// One degree of latitude is about 111 km, so 0.00045 degrees is ~50 m.
	repo := &fakeLocationRepo{latest: []domain.LocationPing{
		{UserID: 2, Latitude: 52.5200 + 0.0045, Longitude: 13.4050, LastUpdated: base},  // ~500 m
		{UserID: 3, Latitude: 52.5200 + 0.00045, Longitude: 13.4050, LastUpdated: base}, // ~50 m
		{UserID: 4, Latitude: 52.6200, Longitude: 13.4050, LastUpdated: base},           // ~11 km
	}}
	finder := NewFinder(repo, 0.1)

	results, err := finder.FindNearby(context.Background(), 1, 52.5200, 13.4050, 1.0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 3, results[0].UserID)
	assert.Equal(t, 2, results[1].UserID)
	assert.Less(t, results[0].DistanceKm, results[1].DistanceKm)
}

func TestFindNearbyDefaultRadius(t *testing.T) {
	base := time.Now()
	repo := &fakeLocationRepo{latest: []domain.LocationPing{
		{UserID: 2, Latitude: 52.5200 + 0.00045, Longitude: 13.4050, LastUpdated: base}, // ~50 m
		{UserID: 3, Latitude: 52.5200 + 0.0045, Longitude: 13.4050, LastUpdated: base},  // ~500 m
	}}
	finder := NewFinder(repo, 0.1)

	// Zero radius falls back to the 100 m default: only the 50 m user fits.
	results, err := finder.FindNearby(context.Background(), 1, 52.5200, 13.4050, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].UserID)
}

func TestFindNearbyExcludesRequester(t *testing.T) {
	repo := &fakeLocationRepo{latest: []domain.LocationPing{
		{UserID: 1, Latitude: 52.5200, Longitude: 13.4050},
	}}
	finder := NewFinder(repo, 0.1)

	results, err := finder.FindNearby(context.Background(), 1, 52.5200, 13.4050, 1.0)
	require.NoError(t, err)
	assert.Empty(t, results)
}
