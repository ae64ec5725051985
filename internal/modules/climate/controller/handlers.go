package controller

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"climate-server/internal/modules/climate/types"
	"climate-server/internal/modules/climate/views"
	"climate-server/internal/utils"
)

func (c *climateControllerImpl) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := views.RenderIndex(&buf, views.DefaultIndex()); err != nil {
		slog.Error("index template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("index: write response failed", "error", err)
	}
}

func (c *climateControllerImpl) handlePrecipitation(w http.ResponseWriter, r *http.Request) {
	prcp, err := c.planner.Precipitation(r.Context())
	if err != nil {
		writePlannerError(w, "precipitation", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, prcp)
}

func (c *climateControllerImpl) handleStations(w http.ResponseWriter, r *http.Request) {
	stations, err := c.planner.Stations(r.Context())
	if err != nil {
		writePlannerError(w, "stations", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stations)
}

func (c *climateControllerImpl) handleTobs(w http.ResponseWriter, r *http.Request) {
	obs, err := c.planner.MostActiveTemperatures(r.Context())
	if err != nil {
		writePlannerError(w, "tobs", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, obs)
}

func (c *climateControllerImpl) handleTemperatureStats(w http.ResponseWriter, r *http.Request) {
	start, end := statsRange(r)
	stats, err := c.planner.TemperatureStats(r.Context(), start, end)
	if err != nil {
		writePlannerError(w, "temperature stats", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stats)
}

// writePlannerError maps planner errors to responses. Only malformed dates are
// the caller's fault; everything else is a server-side failure.
func writePlannerError(w http.ResponseWriter, route string, err error) {
	var dateErr *types.DateFormatError
	switch {
	case errors.As(err, &dateErr):
		utils.WriteError(w, http.StatusBadRequest, dateErr.Error())
	case errors.Is(err, types.ErrEmptyDataset):
		slog.Error("query on empty dataset", "route", route, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, types.ErrEmptyDataset.Error())
	default:
		slog.Error("query failed", "route", route, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load "+route)
	}
}
