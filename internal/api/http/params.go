package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"menu-booking-backend/internal/domain"

	"github.com/gorilla/mux"
)

func pathID(r *http.Request, name string) (int32, error) {
	return parseID(mux.Vars(r)[name], name)
}

func parseID(raw, name string) (int32, error) {
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, name)
	}
	return int32(v), nil
}

// queryInt returns def when the parameter is absent.
func queryInt(r *http.Request, name string, def int32) (int32, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, name)
	}
	return int32(v), nil
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", domain.ErrInvalidInput, err)
	}
	return nil
}
