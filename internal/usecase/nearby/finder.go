// Package nearby finds other users' most recent active location pings
// within a radius of a query point.
package nearby

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/campuslink24/campuslink-backend/internal/repository"
)

type Finder struct {
	locationRepo  repository.LocationRepository
	defaultRadius float64
}

func NewFinder(locationRepo repository.LocationRepository, defaultRadiusKm float64) *Finder {
	return &Finder{
		locationRepo:  locationRepo,
		defaultRadius: defaultRadiusKm,
	}
}

// NearbyUser is one ranked proximity result.
type NearbyUser struct {
	UserID     int       `json:"user_id"`
	DistanceKm float64   `json:"distance_km"`
	LastSeen   time.Time `json:"last_seen"`
}

// FindNearby returns other users whose latest active ping falls within
// radiusKm of the query point, sorted ascending by distance. A zero radius
// falls back to the configured default.
func (f *Finder) FindNearby(ctx context.Context, userID int, lat, lon, radiusKm float64) ([]NearbyUser, error) {
	if radiusKm <= 0 {
		radiusKm = f.defaultRadius
	}

	pings, err := f.locationRepo.LatestActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest locations: %w", err)
	}

	results := make([]NearbyUser, 0, len(pings))
	for _, ping := range pings {
		d := DistanceKm(lat, lon, ping.Latitude, ping.Longitude)
		if d > radiusKm {
			continue
		}
		results = append(results, NearbyUser{
			UserID:     ping.UserID,
			DistanceKm: d,
			LastSeen:   ping.LastUpdated,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})
	return results, nil
}

const earthRadiusKm = 6371.0

// DistanceKm computes the great-circle distance by the spherical law of
// cosines. The acos argument is clamped to [-1, 1]: floating rounding can
// push it just past 1 for near-identical points, which would yield NaN.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0
	dLonRad := (lon2 - lon1) * math.Pi / 180.0

	arg := math.Sin(lat1Rad)*math.Sin(lat2Rad) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Cos(dLonRad)
	if arg > 1 {
		arg = 1
	}
	if arg < -1 {
		arg = -1
	}
	return earthRadiusKm * math.Acos(arg)
}
