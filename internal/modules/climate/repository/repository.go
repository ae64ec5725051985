package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"log/slog"

	"climate-server/internal/modules/climate/types"
)

//go:embed sql/max-observation-date.sql
var maxObservationDateSQL string

//go:embed sql/get-precipitation-since.sql
var getPrecipitationSinceSQL string

//go:embed sql/get-station-ids.sql
var getStationIDsSQL string

//go:embed sql/get-most-active-station.sql
var getMostActiveStationSQL string

//go:embed sql/get-station-temperatures-since.sql
var getStationTemperaturesSinceSQL string

//go:embed sql/get-temperature-stats.sql
var getTemperatureStatsSQL string

type ClimateRepository interface {
	MaxObservationDate(ctx context.Context) (string, error)
	ObservationsSince(ctx context.Context, date string) ([]types.Precipitation, error)
	StationIdentifiers(ctx context.Context) ([]string, error)
	MostActiveStation(ctx context.Context) (string, error)
	ObservationsForStation(ctx context.Context, stationID string, sinceDate string) ([]types.TemperatureObservation, error)
	TemperatureStats(ctx context.Context, fromDate string, toDate *string) (types.TemperatureStats, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) ClimateRepository {
	return &repositoryImpl{db: db}
}

func storeErr(op string, err error) error {
	return &types.StoreError{Op: op, Err: err}
}

func (r *repositoryImpl) MaxObservationDate(ctx context.Context) (string, error) {
	var maxDate sql.NullString
	if err := r.db.QueryRowContext(ctx, maxObservationDateSQL).Scan(&maxDate); err != nil {
		return "", storeErr("max observation date", err)
	}
	if !maxDate.Valid {
		return "", types.ErrEmptyDataset
	}
	return maxDate.String, nil
}

func (r *repositoryImpl) ObservationsSince(ctx context.Context, date string) ([]types.Precipitation, error) {
	rows, err := r.db.QueryContext(ctx, getPrecipitationSinceSQL, date)
	if err != nil {
		return nil, storeErr("precipitation since", err)
	}
	defer closeRows(rows, "precipitation")

	var out []types.Precipitation
	for rows.Next() {
		var (
			rec  types.Precipitation
			prcp sql.NullFloat64
		)
		if err := rows.Scan(&rec.Date, &prcp); err != nil {
			return nil, storeErr("scan precipitation", err)
		}
		if prcp.Valid {
			v := prcp.Float64
			rec.Prcp = &v
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("precipitation since", err)
	}
	return out, nil
}

func (r *repositoryImpl) StationIdentifiers(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, getStationIDsSQL)
	if err != nil {
		return nil, storeErr("station identifiers", err)
	}
	defer closeRows(rows, "stations")

	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, storeErr("scan station", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("station identifiers", err)
	}
	return out, nil
}

func (r *repositoryImpl) MostActiveStation(ctx context.Context) (string, error) {
	var (
		station string
		count   int
	)
	err := r.db.QueryRowContext(ctx, getMostActiveStationSQL).Scan(&station, &count)
	if errors.Is(err, sql.ErrNoRows) {
		return "", types.ErrEmptyDataset
	}
	if err != nil {
		return "", storeErr("most active station", err)
	}
	return station, nil
}

func (r *repositoryImpl) ObservationsForStation(ctx context.Context, stationID string, sinceDate string) ([]types.TemperatureObservation, error) {
	rows, err := r.db.QueryContext(ctx, getStationTemperaturesSinceSQL, stationID, sinceDate)
	if err != nil {
		return nil, storeErr("station temperatures", err)
	}
	defer closeRows(rows, "station temperatures")

	out := []types.TemperatureObservation{}
	for rows.Next() {
		var rec types.TemperatureObservation
		if err := rows.Scan(&rec.Date, &rec.Temperature); err != nil {
			return nil, storeErr("scan station temperature", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("station temperatures", err)
	}
	return out, nil
}

func (r *repositoryImpl) TemperatureStats(ctx context.Context, fromDate string, toDate *string) (types.TemperatureStats, error) {
	var to sql.NullString
	if toDate != nil {
		to = sql.NullString{String: *toDate, Valid: true}
	}

	var tmin, tavg, tmax sql.NullFloat64
	err := r.db.QueryRowContext(ctx, getTemperatureStatsSQL, fromDate, to).Scan(&tmin, &tavg, &tmax)
	if err != nil {
		return types.TemperatureStats{}, storeErr("temperature stats", err)
	}
	return types.TemperatureStats{
		Min: nullableFloat(tmin),
		Avg: nullableFloat(tavg),
		Max: nullableFloat(tmax),
	}, nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func closeRows(rows *sql.Rows, what string) {
	if err := rows.Close(); err != nil {
		slog.Error("close rows", "query", what, "error", err)
	}
}
