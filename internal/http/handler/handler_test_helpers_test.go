package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/sandeepkv93/edumeet-backend/internal/http/middleware"
	"github.com/sandeepkv93/edumeet-backend/internal/security"
)

type envelopeForTest struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newJSONRequest(method, target, body string) *http.Request {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func withUser(req *http.Request, userID string) *http.Request {
	claims := &security.Claims{Role: "Teacher", RegisteredClaims: jwt.RegisteredClaims{Subject: userID}}
	return req.WithContext(context.WithValue(req.Context(), middleware.ClaimsContextKey, claims))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelopeForTest {
	t.Helper()
	var env envelopeForTest
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v (body=%q)", err, rr.Body.String())
	}
	return env
}

func decodeData[T any](t *testing.T, env envelopeForTest) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode data: %v (data=%s)", err, env.Data)
	}
	return out
}

func errorCode(env envelopeForTest) string {
	if env.Error == nil {
		return ""
	}
	return env.Error.Code
}
