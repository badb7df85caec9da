package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/edumeet-backend/internal/http/response"
	"github.com/sandeepkv93/edumeet-backend/internal/observability"
	"github.com/sandeepkv93/edumeet-backend/internal/repository"
	"github.com/sandeepkv93/edumeet-backend/internal/service"
)

type MeetingHandler struct {
	meetings service.MeetingServiceInterface
}

func NewMeetingHandler(meetings service.MeetingServiceInterface) *MeetingHandler {
	return &MeetingHandler{meetings: meetings}
}

func (h *MeetingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	var body struct {
		Title     string    `json:"title"`
		StartTime time.Time `json:"start_time"`
		EndTime   time.Time `json:"end_time"`
		ClassID   uint      `json:"class_id"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	created, err := h.meetings.Schedule(r.Context(), service.ScheduleInput{
		Title:     body.Title,
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
		ClassID:   body.ClassID,
	})
	if err != nil {
		outcome := writeServiceError(w, r, err, "failed to schedule meeting")
		observability.Audit(r, observability.AuditInput{EventName: "meeting.schedule", ActorUserID: actorID(userID), Outcome: outcome, Reason: err.Error()})
		return
	}
	observability.Audit(r, observability.AuditInput{EventName: "meeting.schedule", ActorUserID: actorID(userID), Outcome: "success"})
	response.JSON(w, r, http.StatusCreated, created)
}

func (h *MeetingHandler) List(w http.ResponseWriter, r *http.Request) {
	pageReq, err := parsePageRequest(r)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	q := repository.MeetingListQuery{PageRequest: pageReq}
	if raw := strings.TrimSpace(r.URL.Query().Get("class_id")); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || v == 0 {
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "class_id must be a positive integer", nil)
			return
		}
		q.ClassID = uint(v)
	}
	page, err := h.meetings.List(r.Context(), q)
	if err != nil {
		writeServiceError(w, r, err, "failed to list meetings")
		return
	}
	response.JSON(w, r, http.StatusOK, paginatedData(page.Items, page.Page, page.PageSize, page.Total, page.TotalPages))
}

func (h *MeetingHandler) CreateClass(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	class, err := h.meetings.CreateClass(r.Context(), body.Name, userID)
	if err != nil {
		writeServiceError(w, r, err, "failed to create class")
		return
	}
	observability.Audit(r, observability.AuditInput{EventName: "class.create", ActorUserID: actorID(userID), Outcome: "success"})
	response.JSON(w, r, http.StatusCreated, class)
}

func (h *MeetingHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	classID, err := parseUintParam(r, "id")
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	if err := h.meetings.Enroll(r.Context(), classID, userID); err != nil {
		writeServiceError(w, r, err, "failed to enroll")
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]uint{"class_id": classID, "student_id": userID})
}
