package controller

import (
	"context"
	"net/http"

	"climate-server/internal/modules/climate/types"
)

// Planner is the query surface the handlers need; *service.Service
// implements it.
type Planner interface {
	Precipitation(ctx context.Context) (map[string]*float64, error)
	Stations(ctx context.Context) ([]string, error)
	MostActiveTemperatures(ctx context.Context) ([]types.TemperatureObservation, error)
	TemperatureStats(ctx context.Context, start string, end *string) (types.StatsResponse, error)
}

type ClimateController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type climateControllerImpl struct {
	planner Planner
}

func NewClimateController(planner Planner) ClimateController {
	return &climateControllerImpl{planner: planner}
}

func (c *climateControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", c.handleIndex)
	mux.HandleFunc("GET /api/v1.0/precipitation", c.handlePrecipitation)
	mux.HandleFunc("GET /api/v1.0/stations", c.handleStations)
	mux.HandleFunc("GET /api/v1.0/tobs", c.handleTobs)
	mux.HandleFunc("GET /api/v1.0/{start}", c.handleTemperatureStats)
	mux.HandleFunc("GET /api/v1.0/{start}/{end}", c.handleTemperatureStats)
}
