package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"photofeed/dto"
	"photofeed/feed"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/sirupsen/logrus"
)

var (
	formDecoder = newFormDecoder()
	validate    = validator.New()
)

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// statusFor maps the feed error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, feed.ErrUnauthenticated), errors.Is(err, feed.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, feed.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, feed.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, feed.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func logRequestError(r *http.Request, status int, err error) {
	entry := logrus.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": status,
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("error encoding response")
	}
}

// writeError answers a REST request with the JSON error body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	logRequestError(r, status, err)
	writeJSON(w, status, dto.ErrorDTO{Message: http.StatusText(status), StatusCode: status})
}

// pageError answers a rendered-surface request with a plain status page.
func pageError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	logRequestError(r, status, err)
	http.Error(w, http.StatusText(status), status)
}

// decodeForm decodes the parsed form into dst and validates it.
func decodeForm(r *http.Request, dst any) error {
	if err := formDecoder.Decode(dst, r.PostForm); err != nil {
		return fmt.Errorf("decoding form: %v: %w", err, feed.ErrInvalidArgument)
	}
	return validateStruct(dst)
}

func validateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%v: %w", err, feed.ErrInvalidArgument)
	}
	return nil
}

// redirectTarget redirects to ?target= when it is a local path, and to
// fallback otherwise.
func redirectTarget(w http.ResponseWriter, r *http.Request, fallback string) {
	target := r.URL.Query().Get("target")
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		target = fallback
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// intParam reads a non-required integer query parameter. Values that are
// missing or do not parse fall back to def.
func intParam(q url.Values, key string, def int) int {
	v := q.Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// idParam reads a required id from the query string.
func idParam(q url.Values, key string) (int64, error) {
	return parseID(q.Get(key), key)
}

// idVar reads an id from the route variables.
func idVar(r *http.Request, key string) (int64, error) {
	return parseID(mux.Vars(r)[key], key)
}

// parseID rejects ids that are not integers. Ids below 1 parse but can
// never match a row, so they are NotFound.
func parseID(v, key string) (int64, error) {
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, feed.ErrInvalidArgument)
	}
	if id <= 0 {
		return 0, fmt.Errorf("no %s %d: %w", key, id, feed.ErrNotFound)
	}
	return id, nil
}
