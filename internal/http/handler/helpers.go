package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sandeepkv93/edumeet-backend/internal/http/middleware"
	"github.com/sandeepkv93/edumeet-backend/internal/http/response"
	"github.com/sandeepkv93/edumeet-backend/internal/repository"
	"github.com/sandeepkv93/edumeet-backend/internal/service"
)

var errInvalidPayload = errors.New("invalid payload")

// decodeJSON reads an optional JSON body. An empty body leaves out untouched.
func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(out)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return err
	}
	return errInvalidPayload
}

func writeDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		response.Error(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body too large", nil)
		return
	}
	response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
}

// writeServiceError maps service sentinels to HTTP statuses and returns the
// audit outcome for the failure.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) string {
	switch {
	case errors.Is(err, service.ErrValidation):
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", validationMessage(err), nil)
	case errors.Is(err, service.ErrDuplicateAccount):
		response.Error(w, r, http.StatusBadRequest, "DUPLICATE_ACCOUNT", service.ErrDuplicateAccount.Error(), nil)
	case errors.Is(err, service.ErrInvalidOrExpiredCode):
		response.Error(w, r, http.StatusBadRequest, "INVALID_OR_EXPIRED_CODE", service.ErrInvalidOrExpiredCode.Error(), nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials or inactive account", nil)
	case errors.Is(err, service.ErrUnknownEmail):
		response.Error(w, r, http.StatusNotFound, "UNKNOWN_EMAIL", service.ErrUnknownEmail.Error(), nil)
	case errors.Is(err, service.ErrNotFound):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", service.ErrNotFound.Error(), nil)
	case errors.Is(err, service.ErrRateLimited):
		response.Error(w, r, http.StatusTooManyRequests, "RATE_LIMITED", service.ErrRateLimited.Error(), nil)
	case errors.Is(err, service.ErrCalendarUnavailable):
		response.Error(w, r, http.StatusInternalServerError, "CALENDAR_UNAVAILABLE", "failed to generate meeting link", nil)
		return "error"
	default:
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", fallback, nil)
		return "error"
	}
	return "rejected"
}

// validationMessage strips the sentinel prefix so clients see only the detail.
func validationMessage(err error) string {
	msg := err.Error()
	if detail, ok := strings.CutPrefix(msg, service.ErrValidation.Error()+": "); ok {
		return detail
	}
	return msg
}

func currentUserID(r *http.Request) (uint, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return 0, false
	}
	id, err := claims.UserID()
	if err != nil {
		return 0, false
	}
	return id, true
}

func actorID(id uint) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(id), 10)
}

func parseUintParam(r *http.Request, name string) (uint, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return uint(v), nil
}

func parsePageRequest(r *http.Request) (repository.PageRequest, error) {
	page := repository.DefaultPage
	pageSize := repository.DefaultPageSize
	if raw := strings.TrimSpace(r.URL.Query().Get("page")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return repository.PageRequest{}, errors.New("page must be a positive integer")
		}
		page = v
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("page_size")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return repository.PageRequest{}, errors.New("page_size must be a positive integer")
		}
		if v > repository.MaxPageSize {
			return repository.PageRequest{}, fmt.Errorf("page_size must be <= %d", repository.MaxPageSize)
		}
		pageSize = v
	}
	return repository.PageRequest{Page: page, PageSize: pageSize}, nil
}

func paginatedData[T any](items []T, page, pageSize int, total int64, totalPages int) map[string]any {
	return map[string]any{
		"items": items,
		"pagination": map[string]any{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages,
		},
	}
}
