package gateway

import "github.com/piresc/fleetnav/services/trips"

var (
	_ trips.RoutingGW     = (*RoutingClient)(nil)
	_ trips.EventGW       = (*EventPublisher)(nil)
	_ trips.MaintenanceGW = (*MaintenancePublisher)(nil)
)
