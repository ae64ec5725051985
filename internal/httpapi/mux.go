package httpapi

import (
	"database/sql"
	"net/http"
)

// NewMux returns a mux carrying /healthz. The climate feature registers its
// routes on the same mux.
func NewMux(db *sql.DB) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /healthz", healthzHandler(storeProbe{db: db}))
	return mux
}
