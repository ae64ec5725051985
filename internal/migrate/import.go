package migrate

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

var measurementHeader = []string{"station", "date", "prcp", "tobs"}

// ImportMeasurements loads measurement rows from CSV with the header
// station,date,prcp,tobs. An empty prcp cell is stored as NULL. The whole file
// is loaded in one transaction; the number of inserted rows is returned.
func ImportMeasurements(ctx context.Context, db *sql.DB, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(measurementHeader)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	for i, want := range measurementHeader {
		if strings.ToLower(strings.TrimSpace(header[i])) != want {
			return 0, fmt.Errorf("header column %d = %q, want %q", i+1, header[i], want)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO measurement (station, date, prcp, tobs) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stmt.Close() }()

	n := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read row %d: %w", n+2, err)
		}
		row, err := parseMeasurement(rec)
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", n+2, err)
		}
		if _, err := stmt.ExecContext(ctx, row.station, row.date, row.prcp, row.tobs); err != nil {
			return 0, fmt.Errorf("insert row %d: %w", n+2, err)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

type measurementRow struct {
	station string
	date    string
	prcp    sql.NullFloat64
	tobs    float64
}

func parseMeasurement(rec []string) (measurementRow, error) {
	var row measurementRow
	row.station = strings.TrimSpace(rec[0])
	if row.station == "" {
		return row, errors.New("empty station")
	}
	row.date = strings.TrimSpace(rec[1])
	if _, err := time.Parse(time.DateOnly, row.date); err != nil {
		return row, fmt.Errorf("date %q: %w", row.date, err)
	}
	if s := strings.TrimSpace(rec[2]); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return row, fmt.Errorf("prcp %q: %w", s, err)
		}
		row.prcp = sql.NullFloat64{Float64: v, Valid: true}
	}
	tobs, err := strconv.ParseFloat(strings.TrimSpace(rec[3]), 64)
	if err != nil {
		return row, fmt.Errorf("tobs %q: %w", rec[3], err)
	}
	row.tobs = tobs
	return row, nil
}
