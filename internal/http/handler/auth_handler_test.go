package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/sandeepkv93/edumeet-backend/internal/domain"
	"github.com/sandeepkv93/edumeet-backend/internal/service"
	servicegomock "github.com/sandeepkv93/edumeet-backend/internal/service/gomock"
)

func newAuthHandlerForTest(t *testing.T) (*AuthHandler, *servicegomock.MockAccountServiceInterface, *servicegomock.MockSessionIssuerInterface) {
	t.Helper()
	ctrl := gomock.NewController(t)
	accounts := servicegomock.NewMockAccountServiceInterface(ctrl)
	sessions := servicegomock.NewMockSessionIssuerInterface(ctrl)
	return NewAuthHandler(accounts, sessions), accounts, sessions
}

func TestWriteServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		outcome string
	}{
		{"validation", fmt.Errorf("%w: password too short", service.ErrValidation), http.StatusBadRequest, "BAD_REQUEST", "rejected"},
		{"duplicate", service.ErrDuplicateAccount, http.StatusBadRequest, "DUPLICATE_ACCOUNT", "rejected"},
		{"expired code", service.ErrInvalidOrExpiredCode, http.StatusBadRequest, "INVALID_OR_EXPIRED_CODE", "rejected"},
		{"credentials", errors.Join(service.ErrInvalidCredentials, errors.New("inactive")), http.StatusUnauthorized, "UNAUTHORIZED", "rejected"},
		{"unknown email", service.ErrUnknownEmail, http.StatusNotFound, "UNKNOWN_EMAIL", "rejected"},
		{"not found", service.ErrNotFound, http.StatusNotFound, "NOT_FOUND", "rejected"},
		{"rate limited", service.ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMITED", "rejected"},
		{"calendar", fmt.Errorf("schedule: %w", service.ErrCalendarUnavailable), http.StatusInternalServerError, "CALENDAR_UNAVAILABLE", "error"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL", "error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			outcome := writeServiceError(rr, newJSONRequest(http.MethodPost, "/x", ""), tc.err, "fallback")
			if rr.Code != tc.status {
				t.Fatalf("status=%d want %d", rr.Code, tc.status)
			}
			env := decodeEnvelope(t, rr)
			if errorCode(env) != tc.code {
				t.Fatalf("code=%q want %q", errorCode(env), tc.code)
			}
			if outcome != tc.outcome {
				t.Fatalf("outcome=%q want %q", outcome, tc.outcome)
			}
		})
	}
}

func TestWriteServiceErrorHidesUnexpectedDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	writeServiceError(rr, newJSONRequest(http.MethodGet, "/me", ""), errors.New("pq: secret detail"), "failed to load profile")
	env := decodeEnvelope(t, rr)
	if env.Error == nil || env.Error.Message != "failed to load profile" {
		t.Fatalf("expected generic message, got %+v", env.Error)
	}
}

func TestValidationMessageStripsSentinel(t *testing.T) {
	err := fmt.Errorf("%w: %s", service.ErrValidation, "invalid role")
	if got := validationMessage(err); got != "invalid role" {
		t.Fatalf("validationMessage=%q", got)
	}
}

func TestSignupHandler(t *testing.T) {
	expires := time.Date(2026, 3, 1, 9, 10, 0, 0, time.UTC)

	t.Run("creates account and returns session token", func(t *testing.T) {
		h, accounts, _ := newAuthHandlerForTest(t)
		accounts.EXPECT().RequestSignup(gomock.Any(), service.SignupInput{
			FullName: "Alice", Email: "alice@example.com", Password: "pw123", Role: domain.RoleTeacher,
		}).Return(&service.CodeIssued{UserID: 7, SessionToken: "sess-1", ExpiresAt: expires}, nil)

		rr := httptest.NewRecorder()
		h.Signup(rr, newJSONRequest(http.MethodPost, "/signup", `{"full_name":"Alice","email":"alice@example.com","password":"pw123","role":"Teacher"}`))
		if rr.Code != http.StatusCreated {
			t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
		}
		data := decodeData[map[string]any](t, decodeEnvelope(t, rr))
		if data["session_token"] != "sess-1" {
			t.Fatalf("unexpected payload %+v", data)
		}
		if _, leaked := data["code"]; leaked {
			t.Fatal("verification code must not be returned")
		}
	})

	t.Run("resend flag reissues code", func(t *testing.T) {
		h, accounts, _ := newAuthHandlerForTest(t)
		accounts.EXPECT().ResendSignupCode(gomock.Any(), "alice@example.com").
			Return(&service.CodeIssued{UserID: 7, SessionToken: "sess-2", ExpiresAt: expires}, nil)

		rr := httptest.NewRecorder()
		h.Signup(rr, newJSONRequest(http.MethodPost, "/signup", `{"email":"alice@example.com","resend":true}`))
		if rr.Code != http.StatusCreated {
			t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
		}
	})

	t.Run("duplicate account", func(t *testing.T) {
		h, accounts, _ := newAuthHandlerForTest(t)
		accounts.EXPECT().RequestSignup(gomock.Any(), gomock.Any()).Return(nil, service.ErrDuplicateAccount)

		rr := httptest.NewRecorder()
		h.Signup(rr, newJSONRequest(http.MethodPost, "/signup", `{"email":"alice@example.com","password":"pw123","role":"Teacher"}`))
		if rr.Code != http.StatusBadRequest || errorCode(decodeEnvelope(t, rr)) != "DUPLICATE_ACCOUNT" {
			t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
		}
	})

	t.Run("malformed payload never reaches service", func(t *testing.T) {
		h, _, _ := newAuthHandlerForTest(t)
		rr := httptest.NewRecorder()
		h.Signup(rr, newJSONRequest(http.MethodPost, "/signup", `{"email":`))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status=%d", rr.Code)
		}
	})
}

func TestLoginHandler(t *testing.T) {
	t.Run("success returns bearer token", func(t *testing.T) {
		h, _, sessions := newAuthHandlerForTest(t)
		sessions.EXPECT().Authenticate(gomock.Any(), "alice@example.com", "pw123").Return(&service.LoginResult{
			AccessToken: "jwt", TokenType: "Bearer", ExpiresAt: time.Now().Add(time.Hour),
			User: &domain.User{ID: 1, Email: "alice@example.com", IsActive: true},
		}, nil)

		rr := httptest.NewRecorder()
		h.Login(rr, newJSONRequest(http.MethodPost, "/login", `{"email":"alice@example.com","password":"pw123"}`))
		if rr.Code != http.StatusOK {
			t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
		}
		data := decodeData[map[string]any](t, decodeEnvelope(t, rr))
		if data["access_token"] != "jwt" || data["token_type"] != "Bearer" {
			t.Fatalf("unexpected payload %+v", data)
		}
	})

	t.Run("inactive or wrong password is 401", func(t *testing.T) {
		h, _, sessions := newAuthHandlerForTest(t)
		sessions.EXPECT().Authenticate(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, service.ErrInvalidCredentials)

		rr := httptest.NewRecorder()
		h.Login(rr, newJSONRequest(http.MethodPost, "/login", `{"email":"alice@example.com","password":"nope"}`))
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status=%d", rr.Code)
		}
	})
}

func TestCheckEmailHandler(t *testing.T) {
	h, accounts, _ := newAuthHandlerForTest(t)

	rr := httptest.NewRecorder()
	h.CheckEmail(rr, newJSONRequest(http.MethodPost, "/check-email", `{"email":"  "}`))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("blank email status=%d", rr.Code)
	}

	accounts.EXPECT().CheckEmail(gomock.Any(), "alice@example.com").Return(true, nil)
	rr = httptest.NewRecorder()
	h.CheckEmail(rr, newJSONRequest(http.MethodPost, "/check-email", `{"email":"alice@example.com"}`))
	data := decodeData[map[string]bool](t, decodeEnvelope(t, rr))
	if rr.Code != http.StatusOK || !data["exists"] {
		t.Fatalf("status=%d data=%+v", rr.Code, data)
	}
}

func TestVerifyEmailReadsQueryAndBody(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   service.CodeInput
	}{
		{
			name:   "query parameters",
			method: http.MethodGet,
			target: "/verify-email?email=alice@example.com&code=12345678&session_token=s1",
			want:   service.CodeInput{Email: "alice@example.com", Code: "12345678", SessionToken: "s1"},
		},
		{
			name:   "legacy token alias",
			method: http.MethodGet,
			target: "/verify-email?email=alice@example.com&token=12345678",
			want:   service.CodeInput{Email: "alice@example.com", Code: "12345678"},
		},
		{
			name:   "body overrides query",
			method: http.MethodPost,
			target: "/verify-email?email=old@example.com",
			body:   `{"email":"alice@example.com","code":"87654321"}`,
			want:   service.CodeInput{Email: "alice@example.com", Code: "87654321"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, accounts, _ := newAuthHandlerForTest(t)
			accounts.EXPECT().VerifyIdentity(gomock.Any(), tc.want).Return(&domain.User{ID: 3, Email: tc.want.Email, IsActive: true}, nil)

			rr := httptest.NewRecorder()
			h.VerifyEmail(rr, newJSONRequest(tc.method, tc.target, tc.body))
			if rr.Code != http.StatusOK {
				t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestVerifyEmailExpiredCode(t *testing.T) {
	h, accounts, _ := newAuthHandlerForTest(t)
	accounts.EXPECT().VerifyIdentity(gomock.Any(), gomock.Any()).Return(nil, service.ErrInvalidOrExpiredCode)

	rr := httptest.NewRecorder()
	h.VerifyEmail(rr, newJSONRequest(http.MethodGet, "/verify-email?email=a@example.com&code=1", ""))
	if rr.Code != http.StatusBadRequest || errorCode(decodeEnvelope(t, rr)) != "INVALID_OR_EXPIRED_CODE" {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
}

func TestForgotPasswordHandler(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"issued", nil, http.StatusOK},
		{"unknown email", service.ErrUnknownEmail, http.StatusNotFound},
		{"throttled", service.ErrRateLimited, http.StatusTooManyRequests},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, accounts, _ := newAuthHandlerForTest(t)
			var issued *service.CodeIssued
			if tc.err == nil {
				issued = &service.CodeIssued{UserID: 1, SessionToken: "s", ExpiresAt: time.Now().Add(time.Hour)}
			}
			accounts.EXPECT().RequestPasswordReset(gomock.Any(), "alice@example.com").Return(issued, tc.err)

			rr := httptest.NewRecorder()
			h.ForgotPassword(rr, newJSONRequest(http.MethodPost, "/forgot-password", `{"email":"alice@example.com"}`))
			if rr.Code != tc.status {
				t.Fatalf("status=%d want %d", rr.Code, tc.status)
			}
		})
	}
}

func TestVerifyResetTokenHandler(t *testing.T) {
	h, accounts, _ := newAuthHandlerForTest(t)
	accounts.EXPECT().VerifyResetCode(gomock.Any(), service.CodeInput{Email: "alice@example.com", Code: "11112222"}).
		Return(&service.ResetCodeStatus{Valid: true, SessionToken: "sess"}, nil)

	rr := httptest.NewRecorder()
	h.VerifyResetToken(rr, newJSONRequest(http.MethodPost, "/verify-reset-token", `{"email":"alice@example.com","code":"11112222"}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	data := decodeData[map[string]any](t, decodeEnvelope(t, rr))
	if data["valid"] != true || data["session_token"] != "sess" {
		t.Fatalf("unexpected payload %+v", data)
	}
}

func TestResetPasswordHandlerPassesLegacyToken(t *testing.T) {
	h, accounts, _ := newAuthHandlerForTest(t)
	accounts.EXPECT().CompletePasswordReset(gomock.Any(), service.ResetInput{Token: "12345678", NewPassword: "fresh"}).Return(nil)

	rr := httptest.NewRecorder()
	h.ResetPassword(rr, newJSONRequest(http.MethodPost, "/reset-password", `{"token":"12345678","new_password":"fresh"}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
}

func TestChangePasswordHandler(t *testing.T) {
	t.Run("requires auth context", func(t *testing.T) {
		h, _, _ := newAuthHandlerForTest(t)
		rr := httptest.NewRecorder()
		h.ChangePassword(rr, newJSONRequest(http.MethodPost, "/change-password", `{}`))
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status=%d", rr.Code)
		}
	})

	t.Run("wrong old password is 400", func(t *testing.T) {
		h, accounts, _ := newAuthHandlerForTest(t)
		accounts.EXPECT().ChangePassword(gomock.Any(), uint(5), "old", "new-pass").Return(service.ErrInvalidCredentials)

		rr := httptest.NewRecorder()
		req := withUser(newJSONRequest(http.MethodPost, "/change-password", `{"old_password":"old","new_password":"new-pass"}`), "5")
		h.ChangePassword(rr, req)
		if rr.Code != http.StatusBadRequest || errorCode(decodeEnvelope(t, rr)) != "INVALID_OLD_PASSWORD" {
			t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
		}
	})

	t.Run("success", func(t *testing.T) {
		h, accounts, _ := newAuthHandlerForTest(t)
		accounts.EXPECT().ChangePassword(gomock.Any(), uint(5), "old", "new-pass").Return(nil)

		rr := httptest.NewRecorder()
		req := withUser(newJSONRequest(http.MethodPost, "/change-password", `{"old_password":"old","new_password":"new-pass"}`), "5")
		h.ChangePassword(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
		}
	})
}
