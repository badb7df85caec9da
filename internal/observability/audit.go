package observability

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"
)

const auditEventVersion = 1

// AuditInput describes one account lifecycle event. Outcome is success,
// rejected or error.
type AuditInput struct {
	EventName   string
	ActorUserID string
	TargetEmail string
	Outcome     string
	Reason      string
}

type AuditEvent struct {
	EventVersion int
	EventName    string
	ActorUserID  string
	ActorIP      string
	TargetEmail  string
	Outcome      string
	Reason       string
	RequestID    string
	TraceID      string
	TS           string
}

func BuildAuditEvent(r *http.Request, in AuditInput) AuditEvent {
	ev := AuditEvent{
		EventVersion: auditEventVersion,
		EventName:    in.EventName,
		ActorUserID:  in.ActorUserID,
		ActorIP:      clientIP(r),
		TargetEmail:  in.TargetEmail,
		Outcome:      in.Outcome,
		Reason:       in.Reason,
		RequestID:    requestID(r),
		TS:           time.Now().UTC().Format(time.RFC3339),
	}
	if sc := trace.SpanContextFromContext(r.Context()); sc.IsValid() {
		ev.TraceID = sc.TraceID().String()
	}
	return ev
}

func (e AuditEvent) Validate() error {
	var missing []string
	if e.EventName == "" {
		missing = append(missing, "event_name")
	}
	if e.Outcome == "" {
		missing = append(missing, "outcome")
	}
	if e.RequestID == "" {
		missing = append(missing, "request_id")
	}
	if len(missing) > 0 {
		return errors.New("audit event missing fields: " + strings.Join(missing, ", "))
	}
	return nil
}

// Audit writes a structured audit line for the request.
func Audit(r *http.Request, in AuditInput) {
	ev := BuildAuditEvent(r, in)
	if err := ev.Validate(); err != nil {
		slog.WarnContext(r.Context(), "invalid audit event", "error", err, "event", in.EventName)
	}
	slog.InfoContext(r.Context(), "audit",
		"event_version", ev.EventVersion,
		"event", ev.EventName,
		"actor_user_id", ev.ActorUserID,
		"actor_ip", ev.ActorIP,
		"target_email", ev.TargetEmail,
		"outcome", ev.Outcome,
		"reason", ev.Reason,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", ev.RequestID,
	)
}

func requestID(r *http.Request) string {
	if id := chimiddleware.GetReqID(r.Context()); id != "" {
		return id
	}
	if id := r.Header.Get("X-Request-Id"); id != "" {
		return id
	}
	return "req-unknown"
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
