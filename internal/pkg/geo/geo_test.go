package geo

import (
	"math"
	"testing"

	"github.com/piresc/fleetnav/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name      string
		a         models.Coordinate
		b         models.Coordinate
		expected  float64
		tolerance float64
	}{
		{
			name:      "Same point",
			a:         models.Coordinate{Latitude: -6.175392, Longitude: 106.827153},
			b:         models.Coordinate{Latitude: -6.175392, Longitude: 106.827153},
			expected:  0,
			tolerance: 0.0001,
		},
		{
			name:      "Jakarta to Bandung",
			a:         models.Coordinate{Latitude: -6.175392, Longitude: 106.827153},
			b:         models.Coordinate{Latitude: -6.914744, Longitude: 107.609810},
			expected:  119000,
			tolerance: 3000,
		},
		{
			name:      "One degree of longitude on the equator",
			a:         models.Coordinate{Latitude: 0, Longitude: 0},
			b:         models.Coordinate{Latitude: 0, Longitude: 1},
			expected:  EarthRadiusMeters * math.Pi / 180,
			tolerance: 0.001,
		},
		{
			name:      "Cross antimeridian",
			a:         models.Coordinate{Latitude: 0, Longitude: 179.5},
			b:         models.Coordinate{Latitude: 0, Longitude: -179.5},
			expected:  EarthRadiusMeters * math.Pi / 180,
			tolerance: 0.001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			d := Distance(tt.a, tt.b)

			// Assert
			assert.InDelta(t, tt.expected, d, tt.tolerance)
		})
	}
}

func TestDistance_Properties(t *testing.T) {
	points := []models.Coordinate{
		{Latitude: 0, Longitude: 0},
		{Latitude: -6.2, Longitude: 106.8},
		{Latitude: 51.5074, Longitude: -0.1278},
		{Latitude: -33.8688, Longitude: 151.2093},
		{Latitude: 89.9, Longitude: 10},
	}

	for _, a := range points {
		assert.Equal(t, 0.0, Distance(a, a))
		for _, b := range points {
			assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-6, "symmetry")
			for _, c := range points {
				assert.LessOrEqual(t, Distance(a, c), Distance(a, b)+Distance(b, c)+1e-6, "triangle inequality")
			}
		}
	}
}

func TestClosestPointOnPolyline(t *testing.T) {
	t.Run("perpendicular foot inside the segment", func(t *testing.T) {
		// Arrange
		polyline := []models.Coordinate{{Latitude: 0, Longitude: 0}, {Latitude: 0, Longitude: 1}}
		query := models.Coordinate{Latitude: 0.0005, Longitude: 0.5}

		// Act
		result, err := ClosestPointOnPolyline(query, polyline)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 0, result.Index)
		// 0.0005 degrees of latitude
		assert.InDelta(t, EarthRadiusMeters*0.0005*math.Pi/180, result.Distance, 0.01)
		assert.InDelta(t, 55.597, result.Distance, 0.01)
		assert.InDelta(t, 0.0, result.Point.Latitude, 1e-9)
		assert.InDelta(t, 0.5, result.Point.Longitude, 1e-9)
	})

	t.Run("foot clamped to segment end", func(t *testing.T) {
		polyline := []models.Coordinate{{Latitude: 0, Longitude: 0}, {Latitude: 0, Longitude: 0.01}}
		query := models.Coordinate{Latitude: 0, Longitude: 0.02}

		result, err := ClosestPointOnPolyline(query, polyline)

		require.NoError(t, err)
		assert.Equal(t, 0, result.Index)
		assert.InDelta(t, Distance(query, polyline[1]), result.Distance, 0.01)
	})

	t.Run("picks the nearest of several segments", func(t *testing.T) {
		polyline := []models.Coordinate{
			{Latitude: 0, Longitude: 0},
			{Latitude: 0, Longitude: 0.01},
			{Latitude: 0.01, Longitude: 0.01},
			{Latitude: 0.01, Longitude: 0.02},
		}
		query := models.Coordinate{Latitude: 0.005, Longitude: 0.0101}

		result, err := ClosestPointOnPolyline(query, polyline)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Index)
		assert.Less(t, result.Distance, 15.0)
	})

	t.Run("point on the polyline", func(t *testing.T) {
		polyline := []models.Coordinate{{Latitude: 1, Longitude: 1}, {Latitude: 1.001, Longitude: 1}}

		result, err := ClosestPointOnPolyline(polyline[1], polyline)

		require.NoError(t, err)
		assert.InDelta(t, 0.0, result.Distance, 1e-6)
	})

	t.Run("degenerate polylines", func(t *testing.T) {
		for _, polyline := range [][]models.Coordinate{nil, {{Latitude: 1, Longitude: 1}}} {
			_, err := ClosestPointOnPolyline(models.Coordinate{}, polyline)
			assert.ErrorIs(t, err, models.ErrInvalidPolyline)
		}
	})
}

func TestBearing(t *testing.T) {
	origin := models.Coordinate{Latitude: 0, Longitude: 0}
	tests := []struct {
		name     string
		to       models.Coordinate
		expected float64
	}{
		{"north", models.Coordinate{Latitude: 1, Longitude: 0}, 0},
		{"east", models.Coordinate{Latitude: 0, Longitude: 1}, 90},
		{"south", models.Coordinate{Latitude: -1, Longitude: 0}, 180},
		{"west", models.Coordinate{Latitude: 0, Longitude: -1}, 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Bearing(origin, tt.to)
			assert.InDelta(t, tt.expected, b, 0.01)
			assert.GreaterOrEqual(t, b, 0.0)
			assert.Less(t, b, 360.0)
		})
	}
}

func TestBearingDelta(t *testing.T) {
	assert.InDelta(t, 20.0, BearingDelta(350, 10), 1e-9)
	assert.InDelta(t, 90.0, BearingDelta(0, 90), 1e-9)
	assert.InDelta(t, 180.0, BearingDelta(0, 180), 1e-9)
	assert.InDelta(t, 0.0, BearingDelta(45, 45), 1e-9)
}

func TestPolylineLength(t *testing.T) {
	polyline := []models.Coordinate{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 1},
		{Latitude: 0, Longitude: 2},
	}

	assert.InDelta(t, 2*EarthRadiusMeters*math.Pi/180, PolylineLength(polyline), 0.01)
	assert.Equal(t, 0.0, PolylineLength(polyline[:1]))
}

func TestEncodeDecode(t *testing.T) {
	c := models.Coordinate{Latitude: -6.175392, Longitude: 106.827153}

	hash := Encode(c, 7)
	assert.Len(t, hash, 7)

	decoded := Decode(hash)
	assert.Less(t, Distance(c, decoded), 200.0)
}
