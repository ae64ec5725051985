package controller

import "net/http"

// statsRange reads {start} and the optional {end} path segments. end is nil
// on the single-date route.
func statsRange(r *http.Request) (start string, end *string) {
	start = r.PathValue("start")
	if e := r.PathValue("end"); e != "" {
		end = &e
	}
	return start, end
}
