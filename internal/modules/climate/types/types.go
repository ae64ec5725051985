package types

import (
	"errors"
	"fmt"
)

// DateLayout is the calendar-day form used for measurement.date and for
// dates accepted on the API.
const DateLayout = "2006-01-02"

// ErrEmptyDataset is returned when a query needs the dataset's latest date or
// busiest station and the measurement table has no rows.
var ErrEmptyDataset = errors.New("dataset is empty")

// Precipitation is one measurement row reduced to its date and prcp value.
// Prcp is nil when the row has no reading.
type Precipitation struct {
	Date string
	Prcp *float64
}

type TemperatureObservation struct {
	Date        string  `json:"date"`
	Temperature float64 `json:"temperature"`
}

// TemperatureStats holds MIN/AVG/MAX(tobs). All three are nil when no rows
// matched.
type TemperatureStats struct {
	Min *float64
	Avg *float64
	Max *float64
}

type StatsResponse struct {
	StartDate string   `json:"start_date"`
	EndDate   *string  `json:"end_date"`
	TMin      *float64 `json:"tmin"`
	TAvg      *float64 `json:"tavg"`
	TMax      *float64 `json:"tmax"`
}

// DateFormatError reports a caller-supplied date that is not YYYY-MM-DD.
type DateFormatError struct {
	Field string
	Value string
	Err   error
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("invalid %s date %q: expected YYYY-MM-DD", e.Field, e.Value)
}

func (e *DateFormatError) Unwrap() error { return e.Err }

// StoreError wraps a failed query against the observation store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
