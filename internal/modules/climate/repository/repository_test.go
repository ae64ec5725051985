package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"climate-server/internal/modules/climate/types"

	_ "github.com/mattn/go-sqlite3"
)

// Minimal schema matching internal/migrate/sql/0001_schema.sql for in-memory tests.
const testSchema = `
CREATE TABLE station (
  id        INTEGER PRIMARY KEY,
  station   TEXT NOT NULL,
  name      TEXT NOT NULL,
  latitude  REAL,
  longitude REAL,
  elevation REAL
);
CREATE TABLE measurement (
  id      INTEGER PRIMARY KEY,
  station TEXT NOT NULL,
  date    TEXT NOT NULL,
  prcp    REAL,
  tobs    REAL NOT NULL
);
`

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("exec schema: %v", err)
	}
	return db
}

func mustExec(t *testing.T, db *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}

func f(v float64) *float64 { return &v }

func TestMaxObservationDate(t *testing.T) {
	ctx := context.Background()

	t.Run("empty dataset", func(t *testing.T) {
		repo := NewRepository(setupTestDB(t))
		_, err := repo.MaxObservationDate(ctx)
		if !errors.Is(err, types.ErrEmptyDataset) {
			t.Fatalf("MaxObservationDate error = %v, want ErrEmptyDataset", err)
		}
	})

	t.Run("returns latest date", func(t *testing.T) {
		db := setupTestDB(t)
		mustExec(t, db, `INSERT INTO measurement (station, date, prcp, tobs) VALUES
			('A', '2017-08-20', 1.2, 80),
			('A', '2017-08-23', 0.9, 81),
			('B', '2010-01-01', 0.0, 65)`)
		got, err := NewRepository(db).MaxObservationDate(ctx)
		if err != nil {
			t.Fatalf("MaxObservationDate: %v", err)
		}
		if got != "2017-08-23" {
			t.Errorf("MaxObservationDate = %q, want 2017-08-23", got)
		}
	})

	t.Run("store failure is a StoreError", func(t *testing.T) {
		db := setupTestDB(t)
		mustExec(t, db, `DROP TABLE measurement`)
		_, err := NewRepository(db).MaxObservationDate(ctx)
		var storeErr *types.StoreError
		if !errors.As(err, &storeErr) {
			t.Fatalf("error = %v, want *types.StoreError", err)
		}
	})
}

func TestObservationsSince(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	mustExec(t, db, `INSERT INTO measurement (station, date, prcp, tobs) VALUES
		('A', '2016-08-22', 0.5, 78),
		('A', '2016-08-23', 0.7, 79),
		('B', '2016-08-23', NULL, 80),
		('A', '2017-08-23', 0.9, 81)`)

	got, err := NewRepository(db).ObservationsSince(ctx, "2016-08-23")
	if err != nil {
		t.Fatalf("ObservationsSince: %v", err)
	}
	want := []types.Precipitation{
		{Date: "2016-08-23", Prcp: f(0.7)},
		{Date: "2016-08-23", Prcp: nil},
		{Date: "2017-08-23", Prcp: f(0.9)},
	}
	if len(got) != len(want) {
		t.Fatalf("ObservationsSince: got %d rows, want %d (%+v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i].Date != want[i].Date {
			t.Errorf("row %d date = %q, want %q", i, got[i].Date, want[i].Date)
		}
		switch {
		case want[i].Prcp == nil && got[i].Prcp != nil:
			t.Errorf("row %d prcp = %v, want nil", i, *got[i].Prcp)
		case want[i].Prcp != nil && (got[i].Prcp == nil || *got[i].Prcp != *want[i].Prcp):
			t.Errorf("row %d prcp = %v, want %v", i, got[i].Prcp, *want[i].Prcp)
		}
	}
}

func TestStationIdentifiers(t *testing.T) {
	ctx := context.Background()

	t.Run("empty table yields empty slice", func(t *testing.T) {
		got, err := NewRepository(setupTestDB(t)).StationIdentifiers(ctx)
		if err != nil {
			t.Fatalf("StationIdentifiers: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("StationIdentifiers = %#v, want empty non-nil slice", got)
		}
	})

	t.Run("storage order without dedup", func(t *testing.T) {
		db := setupTestDB(t)
		mustExec(t, db, `INSERT INTO station (station, name) VALUES
			('USC00519397', 'WAIKIKI'),
			('USC00513117', 'KANEOHE'),
			('USC00519397', 'WAIKIKI AGAIN')`)
		got, err := NewRepository(db).StationIdentifiers(ctx)
		if err != nil {
			t.Fatalf("StationIdentifiers: %v", err)
		}
		want := []string{"USC00519397", "USC00513117", "USC00519397"}
		if len(got) != len(want) {
			t.Fatalf("StationIdentifiers = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("StationIdentifiers[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})
}

func TestMostActiveStation(t *testing.T) {
	ctx := context.Background()

	t.Run("empty dataset", func(t *testing.T) {
		_, err := NewRepository(setupTestDB(t)).MostActiveStation(ctx)
		if !errors.Is(err, types.ErrEmptyDataset) {
			t.Fatalf("MostActiveStation error = %v, want ErrEmptyDataset", err)
		}
	})

	t.Run("highest count wins", func(t *testing.T) {
		db := setupTestDB(t)
		mustExec(t, db, `INSERT INTO measurement (station, date, tobs) VALUES
			('A', '2017-01-01', 70),
			('B', '2017-01-01', 71),
			('B', '2017-01-02', 72),
			('C', '2017-01-01', 73)`)
		got, err := NewRepository(db).MostActiveStation(ctx)
		if err != nil {
			t.Fatalf("MostActiveStation: %v", err)
		}
		if got != "B" {
			t.Errorf("MostActiveStation = %q, want B", got)
		}
	})

	t.Run("ties broken by identifier", func(t *testing.T) {
		db := setupTestDB(t)
		mustExec(t, db, `INSERT INTO measurement (station, date, tobs) VALUES
			('Z', '2017-01-01', 70),
			('Z', '2017-01-02', 70),
			('M', '2017-01-01', 71),
			('M', '2017-01-02', 72)`)
		got, err := NewRepository(db).MostActiveStation(ctx)
		if err != nil {
			t.Fatalf("MostActiveStation: %v", err)
		}
		if got != "M" {
			t.Errorf("MostActiveStation = %q, want M", got)
		}
	})
}

func TestObservationsForStation(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	mustExec(t, db, `INSERT INTO measurement (station, date, tobs) VALUES
		('A', '2016-08-22', 70),
		('A', '2016-08-23', 71),
		('B', '2016-08-24', 90),
		('A', '2017-08-18', 79)`)

	got, err := NewRepository(db).ObservationsForStation(ctx, "A", "2016-08-23")
	if err != nil {
		t.Fatalf("ObservationsForStation: %v", err)
	}
	want := []types.TemperatureObservation{
		{Date: "2016-08-23", Temperature: 71},
		{Date: "2017-08-18", Temperature: 79},
	}
	if len(got) != len(want) {
		t.Fatalf("ObservationsForStation = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	none, err := NewRepository(db).ObservationsForStation(ctx, "unknown", "2016-08-23")
	if err != nil {
		t.Fatalf("ObservationsForStation: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("ObservationsForStation(unknown) = %#v, want empty non-nil slice", none)
	}
}

func TestTemperatureStats(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	mustExec(t, db, `INSERT INTO measurement (station, date, tobs) VALUES
		('A', '2017-01-01', 60),
		('A', '2017-01-02', 70),
		('B', '2017-01-03', 80),
		('B', '2017-01-04', 90)`)
	repo := NewRepository(db)
	end := "2017-01-03"
	before := "2016-12-31"

	tests := []struct {
		name          string
		from          string
		to            *string
		min, avg, max *float64
	}{
		{name: "open ended", from: "2017-01-02", to: nil, min: f(70), avg: f(80), max: f(90)},
		{name: "closed range is inclusive", from: "2017-01-01", to: &end, min: f(60), avg: f(70), max: f(80)},
		{name: "single day", from: "2017-01-03", to: &end, min: f(80), avg: f(80), max: f(80)},
		{name: "no rows", from: "2018-01-01", to: nil},
		{name: "start after end", from: "2017-01-01", to: &before},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.TemperatureStats(ctx, tt.from, tt.to)
			if err != nil {
				t.Fatalf("TemperatureStats: %v", err)
			}
			checkFloat(t, "min", got.Min, tt.min)
			checkFloat(t, "avg", got.Avg, tt.avg)
			checkFloat(t, "max", got.Max, tt.max)
		})
	}
}

func checkFloat(t *testing.T, name string, got, want *float64) {
	t.Helper()
	switch {
	case want == nil && got != nil:
		t.Errorf("%s = %v, want nil", name, *got)
	case want != nil && got == nil:
		t.Errorf("%s = nil, want %v", name, *want)
	case want != nil && *got != *want:
		t.Errorf("%s = %v, want %v", name, *got, *want)
	}
}
