package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/sandeepkv93/edumeet-backend/internal/observability"
)

const (
	googleCalendarBaseURL = "https://www.googleapis.com/calendar/v3"
	googleCalendarScope   = "https://www.googleapis.com/auth/calendar.events"
)

type TimeRange struct {
	Title string
	Start time.Time
	End   time.Time
}

// CalendarProvider creates an event for the range and returns its joinable link.
type CalendarProvider interface {
	CreateEvent(ctx context.Context, tr TimeRange) (string, error)
}

// StaticCalendarProvider mints links under a fixed base URL without calling
// any external API.
type StaticCalendarProvider struct {
	baseURL string
}

func NewStaticCalendarProvider(baseURL string) *StaticCalendarProvider {
	return &StaticCalendarProvider{baseURL: strings.TrimRight(baseURL, "/")}
}

func (p *StaticCalendarProvider) CreateEvent(ctx context.Context, _ TimeRange) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.baseURL + "/" + uuid.NewString(), nil
}

type GoogleCalendarConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	CalendarID   string
	// Endpoint and BaseURL default to Google's production endpoints.
	Endpoint oauth2.Endpoint
	BaseURL  string
}

type GoogleCalendarProvider struct {
	client     *http.Client
	baseURL    string
	calendarID string
}

func NewGoogleCalendarProvider(cfg GoogleCalendarConfig) *GoogleCalendarProvider {
	endpoint := cfg.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = google.Endpoint
	}
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{googleCalendarScope},
		Endpoint:     endpoint,
	}
	ts := oauthCfg.TokenSource(context.Background(), &oauth2.Token{RefreshToken: cfg.RefreshToken})
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = googleCalendarBaseURL
	}
	calendarID := cfg.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}
	return &GoogleCalendarProvider{
		client:     oauth2.NewClient(context.Background(), ts),
		baseURL:    strings.TrimRight(baseURL, "/"),
		calendarID: calendarID,
	}
}

type googleEventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type googleEventRequest struct {
	Summary        string          `json:"summary"`
	Start          googleEventTime `json:"start"`
	End            googleEventTime `json:"end"`
	ConferenceData struct {
		CreateRequest struct {
			RequestID             string `json:"requestId"`
			ConferenceSolutionKey struct {
				Type string `json:"type"`
			} `json:"conferenceSolutionKey"`
		} `json:"createRequest"`
	} `json:"conferenceData"`
}

func (p *GoogleCalendarProvider) CreateEvent(ctx context.Context, tr TimeRange) (string, error) {
	start := time.Now()
	link, err := p.createEvent(ctx, tr)
	status := "success"
	if err != nil {
		status = "error"
	}
	observability.RecordCalendarRequest(ctx, "google", status, time.Since(start))
	return link, err
}

func (p *GoogleCalendarProvider) createEvent(ctx context.Context, tr TimeRange) (string, error) {
	var body googleEventRequest
	body.Summary = tr.Title
	body.Start = googleEventTime{DateTime: tr.Start.UTC().Format(time.RFC3339), TimeZone: "UTC"}
	body.End = googleEventTime{DateTime: tr.End.UTC().Format(time.RFC3339), TimeZone: "UTC"}
	body.ConferenceData.CreateRequest.RequestID = uuid.NewString()
	body.ConferenceData.CreateRequest.ConferenceSolutionKey.Type = "hangoutsMeet"

	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	endpoint := fmt.Sprintf("%s/calendars/%s/events?conferenceDataVersion=1", p.baseURL, url.PathEscape(p.calendarID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("calendar insert status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	var out struct {
		HangoutLink string `json:"hangoutLink"`
		HTMLLink    string `json:"htmlLink"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode calendar event: %w", err)
	}
	if out.HangoutLink == "" {
		return "", fmt.Errorf("calendar event has no conference link")
	}
	return out.HangoutLink, nil
}
