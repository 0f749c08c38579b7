package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/piresc/fleetnav/internal/pkg/constants"
	"github.com/piresc/fleetnav/internal/pkg/database"
	"github.com/piresc/fleetnav/internal/pkg/geo"
	"github.com/piresc/fleetnav/internal/pkg/models"
)

// LocationRepo caches the last known driver position and active trip in
// Redis
type LocationRepo struct {
	redisClient *database.RedisClient
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(redisClient *database.RedisClient) *LocationRepo {
	return &LocationRepo{
		redisClient: redisClient,
	}
}

// SaveLocation stores the sample in the driver hash and the geo set
func (r *LocationRepo) SaveLocation(ctx context.Context, driverID, tripID string, sample models.LocationSample) error {
	key := fmt.Sprintf(constants.KeyDriverLocation, driverID)
	values := map[string]interface{}{
		constants.FieldLatitude:  strconv.FormatFloat(sample.Latitude, 'f', -1, 64),
		constants.FieldLongitude: strconv.FormatFloat(sample.Longitude, 'f', -1, 64),
		constants.FieldGeohash:   geo.Encode(sample.Coordinate, constants.GeohashPrecision),
		constants.FieldTimestamp: strconv.FormatInt(sample.Timestamp.UnixMilli(), 10),
		constants.FieldTripID:    tripID,
	}
	if sample.Speed != nil {
		values[constants.FieldSpeed] = strconv.FormatFloat(*sample.Speed, 'f', -1, 64)
	}

	if err := r.redisClient.HSet(ctx, key, constants.LocationTTL, values); err != nil {
		return fmt.Errorf("failed to store driver location: %w", err)
	}
	if err := r.redisClient.GeoAdd(ctx, constants.KeyDriverGeo, sample.Longitude, sample.Latitude, driverID); err != nil {
		return fmt.Errorf("failed to index driver location: %w", err)
	}
	return nil
}

// LastLocation returns the cached sample, or nil when none is stored
func (r *LocationRepo) LastLocation(ctx context.Context, driverID string) (*models.LocationSample, error) {
	key := fmt.Sprintf(constants.KeyDriverLocation, driverID)
	values, err := r.redisClient.HGetAll(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get driver location: %w", err)
	}
	if len(values) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(values[constants.FieldLatitude], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(values[constants.FieldLongitude], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude: %w", err)
	}
	ts, err := strconv.ParseInt(values[constants.FieldTimestamp], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp: %w", err)
	}

	sample := &models.LocationSample{
		Coordinate: models.Coordinate{Latitude: lat, Longitude: lng},
		Timestamp:  time.UnixMilli(ts).UTC(),
	}
	if raw, ok := values[constants.FieldSpeed]; ok {
		if speed, err := strconv.ParseFloat(raw, 64); err == nil {
			sample.Speed = &speed
		}
	}
	return sample, nil
}

// SetActiveTrip records which trip the driver is running
func (r *LocationRepo) SetActiveTrip(ctx context.Context, driverID, tripID string) error {
	key := fmt.Sprintf(constants.KeyActiveTrip, driverID)
	if err := r.redisClient.Set(ctx, key, tripID, constants.ActiveTripTTL); err != nil {
		return fmt.Errorf("failed to set active trip: %w", err)
	}
	return nil
}

// ActiveTrip returns the cached active trip id, empty when none
func (r *LocationRepo) ActiveTrip(ctx context.Context, driverID string) (string, error) {
	key := fmt.Sprintf(constants.KeyActiveTrip, driverID)
	tripID, err := r.redisClient.Get(ctx, key)
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get active trip: %w", err)
	}
	return tripID, nil
}

// ClearActiveTrip removes the active trip marker
func (r *LocationRepo) ClearActiveTrip(ctx context.Context, driverID string) error {
	key := fmt.Sprintf(constants.KeyActiveTrip, driverID)
	if err := r.redisClient.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to clear active trip: %w", err)
	}
	return nil
}

// RemoveDriver drops the cached location and the geo set entry
func (r *LocationRepo) RemoveDriver(ctx context.Context, driverID string) error {
	key := fmt.Sprintf(constants.KeyDriverLocation, driverID)
	if err := r.redisClient.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete driver location: %w", err)
	}
	if err := r.redisClient.GeoRemove(ctx, constants.KeyDriverGeo, driverID); err != nil {
		return fmt.Errorf("failed to remove driver from geo set: %w", err)
	}
	return nil
}
