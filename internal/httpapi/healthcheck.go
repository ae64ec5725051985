package httpapi

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"climate-server/internal/utils"
)

const healthcheckTimeout = 2 * time.Second

// storeProbe reports whether the climate store still answers queries. A ping
// alone is not enough for SQLite since it never touches the file.
type storeProbe struct {
	db *sql.DB
}

func (p storeProbe) check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthcheckTimeout)
	defer cancel()

	var one int
	return p.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one)
}

func healthzHandler(probe storeProbe) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := probe.check(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "healthcheck failed", "error", err)
			utils.WriteError(w, http.StatusInternalServerError, "store unavailable")
			return
		}
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
