package usecase

import (
	"sync"

	"github.com/piresc/fleetnav/internal/pkg/logger"
	"github.com/piresc/fleetnav/internal/pkg/models"
	"github.com/piresc/fleetnav/internal/pkg/retry"
	"github.com/piresc/fleetnav/services/trips"
	"github.com/piresc/fleetnav/services/trips/lifecycle"
	"github.com/piresc/fleetnav/services/trips/session"
)

// subscriberBuffer bounds how far a slow event subscriber may fall behind
// before events to it are dropped
const subscriberBuffer = 32

// tripUC implements the trips.TripUC interface
type tripUC struct {
	cfg           *models.Config
	tripRepo      trips.TripRepo
	locationRepo  trips.LocationRepo
	routingGW     trips.RoutingGW
	eventGW       trips.EventGW
	maintenanceGW trips.MaintenanceGW
	retrier       *retry.Retrier
	policy        lifecycle.IssuePolicy

	mu       sync.RWMutex
	sessions map[string]*session.Session

	subMu       sync.RWMutex
	subscribers map[string]map[uint64]chan models.Event
	nextSubID   uint64
}

// NewTripUC creates a new trip use case
func NewTripUC(
	cfg *models.Config,
	tripRepo trips.TripRepo,
	locationRepo trips.LocationRepo,
	routingGW trips.RoutingGW,
	eventGW trips.EventGW,
	maintenanceGW trips.MaintenanceGW,
	zl *logger.ZapLogger,
) (trips.TripUC, error) {
	return &tripUC{
		cfg:           cfg,
		tripRepo:      tripRepo,
		locationRepo:  locationRepo,
		routingGW:     routingGW,
		eventGW:       eventGW,
		maintenanceGW: maintenanceGW,
		retrier:       retry.New(retry.FromConfig(cfg.Retry), zl),
		policy:        lifecycle.PolicyFromConfig(cfg.Inspection),
		sessions:      make(map[string]*session.Session),
		subscribers:   make(map[string]map[uint64]chan models.Event),
	}, nil
}
