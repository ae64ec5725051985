package utils

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	t.Run("sets content-type and status", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteJSON(w, http.StatusOK, []string{"USC00519281"})

		if got := w.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
			t.Errorf("Content-Type = %q; want application/json; charset=utf-8", got)
		}
		if w.Code != http.StatusOK {
			t.Errorf("Code = %d; want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("encodes nil pointers as null", func(t *testing.T) {
		w := httptest.NewRecorder()
		var missing *float64
		WriteJSON(w, http.StatusOK, map[string]*float64{"2017-08-23": missing})

		var got map[string]any
		if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
			t.Fatalf("body is not valid JSON: %v", err)
		}
		if v, ok := got["2017-08-23"]; !ok || v != nil {
			t.Errorf("body = %v; want key with null value", got)
		}
	})

	t.Run("unencodable value keeps status", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteJSON(w, http.StatusOK, math.NaN())
		if w.Code != http.StatusOK {
			t.Errorf("Code = %d; want %d", w.Code, http.StatusOK)
		}
	})
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		msg    string
		want   string
	}{
		{name: "message", status: http.StatusBadRequest, msg: "invalid start date", want: "invalid start date"},
		{name: "empty message uses status text", status: http.StatusInternalServerError, msg: "", want: "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.status, tt.msg)

			if got := w.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
				t.Errorf("Content-Type = %q; want application/json; charset=utf-8", got)
			}
			if w.Code != tt.status {
				t.Errorf("Code = %d; want %d", w.Code, tt.status)
			}
			var got map[string]string
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("body is not valid JSON: %v", err)
			}
			if got["error"] != tt.want {
				t.Errorf("error = %q; want %q", got["error"], tt.want)
			}
			if len(got) != 1 {
				t.Errorf("body = %v; want only the error field", got)
			}
		})
	}
}
