package gateway

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/piresc/fleetnav/internal/pkg/geo"
	httpclient "github.com/piresc/fleetnav/internal/pkg/http"
	"github.com/piresc/fleetnav/internal/pkg/logger"
	"github.com/piresc/fleetnav/internal/pkg/models"
	"github.com/piresc/fleetnav/internal/pkg/retry"
	"github.com/twpayne/go-polyline"
)

// urbanSpeedMps separates urban steps from highway ones (50 km/h)
const urbanSpeedMps = 13.9

var htmlTag = regexp.MustCompile(`<[^>]*>`)

type directionsResponse struct {
	Status       string            `json:"status"`
	ErrorMessage string            `json:"error_message"`
	Routes       []directionsRoute `json:"routes"`
}

type directionsRoute struct {
	OverviewPolyline encodedPolyline `json:"overview_polyline"`
	Legs             []directionsLeg `json:"legs"`
}

type directionsLeg struct {
	Distance textValue        `json:"distance"`
	Duration textValue        `json:"duration"`
	Steps    []directionsStep `json:"steps"`
}

type directionsStep struct {
	HTMLInstructions string          `json:"html_instructions"`
	Maneuver         string          `json:"maneuver"`
	Distance         textValue       `json:"distance"`
	Duration         textValue       `json:"duration"`
	StartLocation    latLng          `json:"start_location"`
	Polyline         encodedPolyline `json:"polyline"`
}

type textValue struct {
	Text  string  `json:"text"`
	Value float64 `json:"value"`
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type encodedPolyline struct {
	Points string `json:"points"`
}

// RoutingClient asks a directions provider for driving routes
type RoutingClient struct {
	client *httpclient.Client
	apiKey string
}

// NewRoutingClient creates a routing client from the routing config
func NewRoutingClient(cfg models.RoutingConfig, retryCfg retry.Config, zl *logger.ZapLogger) *RoutingClient {
	return &RoutingClient{
		client: httpclient.NewClient("routing", cfg.BaseURL, cfg.Timeout, retryCfg, zl),
		apiKey: cfg.APIKey,
	}
}

// Client exposes the underlying HTTP client for health reporting
func (r *RoutingClient) Client() *httpclient.Client {
	return r.client
}

// Route computes a driving route from origin to destination
func (r *RoutingClient) Route(ctx context.Context, origin, destination models.Coordinate, avoidTolls bool) (*models.RoutePlan, error) {
	query := url.Values{}
	query.Set("origin", formatLatLng(origin))
	query.Set("destination", formatLatLng(destination))
	query.Set("mode", "driving")
	if avoidTolls {
		query.Set("avoid", "tolls")
	}
	if r.apiKey != "" {
		query.Set("key", r.apiKey)
	}

	var resp directionsResponse
	if err := r.client.GetJSON(ctx, query, &resp); err != nil {
		return nil, fmt.Errorf("failed to request route: %w", err)
	}

	switch resp.Status {
	case "OK":
	case "ZERO_RESULTS", "NOT_FOUND":
		return nil, models.ErrNoRouteFound
	default:
		return nil, fmt.Errorf("routing provider returned %s: %s", resp.Status, resp.ErrorMessage)
	}
	if len(resp.Routes) == 0 {
		return nil, models.ErrNoRouteFound
	}

	plan, err := toRoutePlan(resp.Routes[0])
	if err != nil {
		return nil, err
	}
	plan.AvoidTolls = avoidTolls
	return plan, nil
}

func toRoutePlan(route directionsRoute) (*models.RoutePlan, error) {
	points, err := decodePolyline(route.OverviewPolyline.Points)
	if err != nil {
		return nil, err
	}
	if len(points) < 2 {
		return nil, models.ErrNoRouteFound
	}

	plan := &models.RoutePlan{Polyline: points}
	for _, leg := range route.Legs {
		plan.TotalDistanceMeters += leg.Distance.Value
		plan.ExpectedDurationSeconds += leg.Duration.Value

		for _, step := range leg.Steps {
			start := models.Coordinate{Latitude: step.StartLocation.Lat, Longitude: step.StartLocation.Lng}
			closest, err := geo.ClosestPointOnPolyline(start, points)
			if err != nil {
				return nil, err
			}
			plan.Steps = append(plan.Steps, models.RouteStep{
				Instruction:     stripHTML(step.HTMLInstructions),
				Maneuver:        step.Maneuver,
				DistanceMeters:  step.Distance.Value,
				DurationSeconds: step.Duration.Value,
				StartIndex:      closest.Index,
				Urban:           isUrban(step.Distance.Value, step.Duration.Value),
			})
		}
	}
	if plan.TotalDistanceMeters == 0 {
		plan.TotalDistanceMeters = geo.PolylineLength(points)
	}
	return plan, nil
}

func decodePolyline(encoded string) ([]models.Coordinate, error) {
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode route polyline: %w", err)
	}
	points := make([]models.Coordinate, 0, len(coords))
	for _, c := range coords {
		points = append(points, models.Coordinate{Latitude: c[0], Longitude: c[1]})
	}
	return points, nil
}

func isUrban(distance, duration float64) bool {
	if duration <= 0 {
		return false
	}
	return distance/duration < urbanSpeedMps
}

func stripHTML(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(htmlTag.ReplaceAllString(s, " "))), " ")
}

func formatLatLng(c models.Coordinate) string {
	return fmt.Sprintf("%.6f,%.6f", c.Latitude, c.Longitude)
}
