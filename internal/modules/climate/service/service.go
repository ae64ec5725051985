// Package service turns repository reads into the result shapes served by
// the climate API.
package service

import (
	"context"
	"fmt"
	"time"

	"climate-server/internal/modules/climate/repository"
	"climate-server/internal/modules/climate/types"
)

type Service struct {
	repository repository.ClimateRepository
}

func NewService(repository repository.ClimateRepository) *Service {
	return &Service{repository: repository}
}

// OneYearBefore returns the same month and day one year earlier. Feb 29 maps
// to Feb 28 of the prior year.
func OneYearBefore(date string) (string, error) {
	t, err := time.Parse(types.DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("parse latest observation date %q: %w", date, err)
	}
	return oneYearBefore(t).Format(types.DateLayout), nil
}

func oneYearBefore(t time.Time) time.Time {
	y, m, d := t.Date()
	if m == time.February && d == 29 {
		d = 28
	}
	return time.Date(y-1, m, d, 0, 0, 0, 0, time.UTC)
}

// trailingYearStart is the first date of the 12-month window that ends at
// the dataset's latest observation.
func (s *Service) trailingYearStart(ctx context.Context) (string, error) {
	latest, err := s.repository.MaxObservationDate(ctx)
	if err != nil {
		return "", err
	}
	return OneYearBefore(latest)
}

// Precipitation maps date to prcp over the trailing year. Rows sharing a date
// overwrite each other in storage order, so the last one read wins.
func (s *Service) Precipitation(ctx context.Context) (map[string]*float64, error) {
	since, err := s.trailingYearStart(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.repository.ObservationsSince(ctx, since)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*float64, len(rows))
	for _, row := range rows {
		out[row.Date] = row.Prcp
	}
	return out, nil
}

func (s *Service) Stations(ctx context.Context) ([]string, error) {
	ids, err := s.repository.StationIdentifiers(ctx)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// MostActiveTemperatures returns the trailing year of temperature
// observations recorded by the station with the most measurements.
func (s *Service) MostActiveTemperatures(ctx context.Context) ([]types.TemperatureObservation, error) {
	station, err := s.repository.MostActiveStation(ctx)
	if err != nil {
		return nil, err
	}
	since, err := s.trailingYearStart(ctx)
	if err != nil {
		return nil, err
	}
	obs, err := s.repository.ObservationsForStation(ctx, station, since)
	if err != nil {
		return nil, err
	}
	if obs == nil {
		obs = []types.TemperatureObservation{}
	}
	return obs, nil
}

// TemperatureStats aggregates tobs from start onwards, or over [start, end]
// when end is given. Both dates must be YYYY-MM-DD; otherwise a
// *types.DateFormatError is returned and the store is not queried.
func (s *Service) TemperatureStats(ctx context.Context, start string, end *string) (types.StatsResponse, error) {
	startDate, err := ParseDate("start", start)
	if err != nil {
		return types.StatsResponse{}, err
	}
	var endDate *string
	if end != nil {
		e, err := ParseDate("end", *end)
		if err != nil {
			return types.StatsResponse{}, err
		}
		endDate = &e
	}

	stats, err := s.repository.TemperatureStats(ctx, startDate, endDate)
	if err != nil {
		return types.StatsResponse{}, err
	}
	return types.StatsResponse{
		StartDate: startDate,
		EndDate:   endDate,
		TMin:      stats.Min,
		TAvg:      stats.Avg,
		TMax:      stats.Max,
	}, nil
}

// ParseDate validates a YYYY-MM-DD calendar date and returns it normalized.
func ParseDate(field, value string) (string, error) {
	t, err := time.Parse(types.DateLayout, value)
	if err != nil {
		return "", &types.DateFormatError{Field: field, Value: value, Err: err}
	}
	return t.Format(types.DateLayout), nil
}
