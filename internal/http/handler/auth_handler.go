package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sandeepkv93/edumeet-backend/internal/http/response"
	"github.com/sandeepkv93/edumeet-backend/internal/observability"
	"github.com/sandeepkv93/edumeet-backend/internal/service"
)

type AuthHandler struct {
	accounts service.AccountServiceInterface
	sessions service.SessionIssuerInterface
}

func NewAuthHandler(accounts service.AccountServiceInterface, sessions service.SessionIssuerInterface) *AuthHandler {
	return &AuthHandler{accounts: accounts, sessions: sessions}
}

type codeRequest struct {
	Email        string `json:"email"`
	Code         string `json:"code"`
	Token        string `json:"token"`
	SessionToken string `json:"session_token"`
}

// readCodeRequest merges query parameters with an optional JSON body; body
// fields win.
func readCodeRequest(r *http.Request) (codeRequest, error) {
	q := r.URL.Query()
	req := codeRequest{
		Email:        q.Get("email"),
		Code:         q.Get("code"),
		Token:        q.Get("token"),
		SessionToken: q.Get("session_token"),
	}
	if r.Method != http.MethodPost {
		return req, nil
	}
	var body codeRequest
	if err := decodeJSON(r, &body); err != nil {
		return codeRequest{}, err
	}
	if body.Email != "" {
		req.Email = body.Email
	}
	if body.Code != "" {
		req.Code = body.Code
	}
	if body.Token != "" {
		req.Token = body.Token
	}
	if body.SessionToken != "" {
		req.SessionToken = body.SessionToken
	}
	return req, nil
}

func (c codeRequest) input() service.CodeInput {
	code := c.Code
	if code == "" {
		code = c.Token
	}
	return service.CodeInput{Email: c.Email, Code: code, SessionToken: c.SessionToken}
}

func codeIssuedPayload(message string, issued *service.CodeIssued) map[string]any {
	return map[string]any{
		"message":       message,
		"session_token": issued.SessionToken,
		"expires_at":    issued.ExpiresAt,
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "signup", status, time.Since(start))
	}()

	var body struct {
		FullName string `json:"full_name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
		Resend   bool   `json:"resend"`
	}
	if err := decodeJSON(r, &body); err != nil {
		status = "failure"
		writeDecodeError(w, r, err)
		return
	}

	var (
		issued *service.CodeIssued
		err    error
	)
	if body.Resend {
		issued, err = h.accounts.ResendSignupCode(r.Context(), body.Email)
	} else {
		issued, err = h.accounts.RequestSignup(r.Context(), service.SignupInput{
			FullName: body.FullName,
			Email:    body.Email,
			Password: body.Password,
			Role:     body.Role,
		})
	}
	if err != nil {
		status = "failure"
		outcome := writeServiceError(w, r, err, "failed to register account")
		observability.Audit(r, observability.AuditInput{EventName: "auth.signup", TargetEmail: body.Email, Outcome: outcome, Reason: err.Error()})
		return
	}
	observability.Audit(r, observability.AuditInput{EventName: "auth.signup", ActorUserID: actorID(issued.UserID), TargetEmail: body.Email, Outcome: "success"})
	response.JSON(w, r, http.StatusCreated, codeIssuedPayload("Verification email sent, please check your email", issued))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "login", status, time.Since(start))
	}()

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		status = "failure"
		writeDecodeError(w, r, err)
		return
	}
	result, err := h.sessions.Authenticate(r.Context(), body.Email, body.Password)
	if err != nil {
		status = "failure"
		outcome := writeServiceError(w, r, err, "login failed")
		observability.Audit(r, observability.AuditInput{EventName: "auth.login", TargetEmail: body.Email, Outcome: outcome, Reason: "invalid_credentials"})
		return
	}
	observability.Audit(r, observability.AuditInput{EventName: "auth.login", ActorUserID: actorID(result.User.ID), TargetEmail: body.Email, Outcome: "success"})
	response.JSON(w, r, http.StatusOK, result)
}

func (h *AuthHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	if strings.TrimSpace(body.Email) == "" {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "email is required", nil)
		return
	}
	exists, err := h.accounts.CheckEmail(r.Context(), body.Email)
	if err != nil {
		writeServiceError(w, r, err, "failed to check email")
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]bool{"exists": exists})
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "verify_email", status, time.Since(start))
	}()

	req, err := readCodeRequest(r)
	if err != nil {
		status = "failure"
		writeDecodeError(w, r, err)
		return
	}
	user, err := h.accounts.VerifyIdentity(r.Context(), req.input())
	if err != nil {
		status = "failure"
		outcome := writeServiceError(w, r, err, "failed to verify email")
		observability.Audit(r, observability.AuditInput{EventName: "auth.verify_email", TargetEmail: req.Email, Outcome: outcome, Reason: err.Error()})
		return
	}
	observability.Audit(r, observability.AuditInput{EventName: "auth.verify_email", ActorUserID: actorID(user.ID), TargetEmail: user.Email, Outcome: "success"})
	response.JSON(w, r, http.StatusOK, map[string]string{"message": "Email verified successfully"})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "forgot_password", status, time.Since(start))
	}()

	var body struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &body); err != nil {
		status = "failure"
		writeDecodeError(w, r, err)
		return
	}
	issued, err := h.accounts.RequestPasswordReset(r.Context(), body.Email)
	if err != nil {
		status = "failure"
		outcome := writeServiceError(w, r, err, "failed to start password reset")
		observability.Audit(r, observability.AuditInput{EventName: "auth.forgot_password", TargetEmail: body.Email, Outcome: outcome, Reason: err.Error()})
		return
	}
	observability.Audit(r, observability.AuditInput{EventName: "auth.forgot_password", ActorUserID: actorID(issued.UserID), TargetEmail: body.Email, Outcome: "success"})
	response.JSON(w, r, http.StatusOK, codeIssuedPayload("Password reset email sent", issued))
}

func (h *AuthHandler) VerifyResetToken(w http.ResponseWriter, r *http.Request) {
	req, err := readCodeRequest(r)
	if err != nil {
		writeDecodeError(w, r, err)
		return
	}
	result, err := h.accounts.VerifyResetCode(r.Context(), req.input())
	if err != nil {
		writeServiceError(w, r, err, "failed to verify reset code")
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{
		"message":       "Reset code is valid",
		"valid":         result.Valid,
		"session_token": result.SessionToken,
	})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "reset_password", status, time.Since(start))
	}()

	var body struct {
		Token        string `json:"token"`
		Email        string `json:"email"`
		Code         string `json:"code"`
		SessionToken string `json:"session_token"`
		NewPassword  string `json:"new_password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		status = "failure"
		writeDecodeError(w, r, err)
		return
	}
	err := h.accounts.CompletePasswordReset(r.Context(), service.ResetInput{
		Token:        body.Token,
		Email:        body.Email,
		Code:         body.Code,
		SessionToken: body.SessionToken,
		NewPassword:  body.NewPassword,
	})
	if err != nil {
		status = "failure"
		outcome := writeServiceError(w, r, err, "failed to reset password")
		observability.Audit(r, observability.AuditInput{EventName: "auth.reset_password", TargetEmail: body.Email, Outcome: outcome, Reason: err.Error()})
		return
	}
	observability.Audit(r, observability.AuditInput{EventName: "auth.reset_password", TargetEmail: body.Email, Outcome: "success"})
	response.JSON(w, r, http.StatusOK, map[string]string{"message": "Password reset successfully"})
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "change_password", status, time.Since(start))
	}()

	userID, ok := currentUserID(r)
	if !ok {
		status = "failure"
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	var body struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		status = "failure"
		writeDecodeError(w, r, err)
		return
	}
	if err := h.accounts.ChangePassword(r.Context(), userID, body.OldPassword, body.NewPassword); err != nil {
		status = "failure"
		outcome := "rejected"
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(w, r, http.StatusBadRequest, "INVALID_OLD_PASSWORD", "invalid old password", nil)
		} else {
			outcome = writeServiceError(w, r, err, "failed to change password")
		}
		observability.Audit(r, observability.AuditInput{EventName: "auth.change_password", ActorUserID: actorID(userID), Outcome: outcome, Reason: err.Error()})
		return
	}
	observability.Audit(r, observability.AuditInput{EventName: "auth.change_password", ActorUserID: actorID(userID), Outcome: "success"})
	response.JSON(w, r, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}
