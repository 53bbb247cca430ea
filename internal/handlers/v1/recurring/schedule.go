package recurring

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/mosslake/finledger/internal/handlers/v1/apiutil"
	"github.com/mosslake/finledger/internal/logging"
	"github.com/mosslake/finledger/internal/service"
)

// ScheduleOccurrence is the API model for one outstanding occurrence.
type ScheduleOccurrence struct {
	Date         string `json:"date" doc:"RFC3339 occurrence date"`
	DaysUntilDue int    `json:"daysUntilDue" doc:"Days from now, negative when overdue"`
	Overdue      bool   `json:"overdue" doc:"True when the occurrence date has passed"`
	Eligible     bool   `json:"eligible" doc:"True when this occurrence may be executed now"`
}

// TemplateSchedule is the API model for one template's outstanding schedule.
type TemplateSchedule struct {
	Template    Template             `json:"template" doc:"The template"`
	Occurrences []ScheduleOccurrence `json:"occurrences" doc:"Not-yet-executed occurrences, earliest first"`
}

// GetScheduleInput is the Huma input for the schedule projection.
type GetScheduleInput struct {
	UserID string `header:"X-User-ID" required:"true" doc:"Caller's user UUID"`
}

// GetScheduleResponseBody is the response body for the schedule projection.
type GetScheduleResponseBody struct {
	Schedules []TemplateSchedule `json:"schedules" doc:"One entry per active template"`
}

// GetScheduleOutput is the Huma output for the schedule projection.
type GetScheduleOutput struct {
	Body GetScheduleResponseBody
}

// scheduleProjector is the service slice the schedule handler needs.
type scheduleProjector interface {
	Schedule(ctx context.Context, userID uuid.UUID, now time.Time) ([]service.TemplateSchedule, error)
}

// GetScheduleHandler handles GET /v1/recurring/schedule.
type GetScheduleHandler struct {
	RecurringService scheduleProjector
}

// NewGetScheduleHandler creates a new GetScheduleHandler.
func NewGetScheduleHandler(svc scheduleProjector) *GetScheduleHandler {
	return &GetScheduleHandler{RecurringService: svc}
}

// Register registers the schedule endpoint with the Huma API.
func (h *GetScheduleHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-recurring-schedule",
		Method:      http.MethodGet,
		Path:        "/v1/recurring/schedule",
		Summary:     "Get recurring schedule",
		Description: "Projects every active template's outstanding occurrences and which of them are executable now.",
		Tags:        []string{"Recurring"},
	}, h.handle)
}

func (h *GetScheduleHandler) handle(ctx context.Context, input *GetScheduleInput) (*GetScheduleOutput, error) {
	logData := logging.GetLogData(ctx)

	userID, err := apiutil.ParseUserID(input.UserID)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("scheduleMs")
	}
	schedules, err := h.RecurringService.Schedule(ctx, userID, time.Now().UTC())
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apiutil.MapError(err, "failed to project schedule")
	}

	resp := GetScheduleResponseBody{
		Schedules: make([]TemplateSchedule, len(schedules)),
	}
	for i, sched := range schedules {
		entry := TemplateSchedule{
			Template:    fromTemplate(sched.Template),
			Occurrences: make([]ScheduleOccurrence, len(sched.Occurrences)),
		}
		for j, occ := range sched.Occurrences {
			entry.Occurrences[j] = ScheduleOccurrence{
				Date:         occ.Date.Format(time.RFC3339),
				DaysUntilDue: occ.DaysUntilDue,
				Overdue:      occ.Overdue,
				Eligible:     occ.Eligible,
			}
		}
		resp.Schedules[i] = entry
	}
	return &GetScheduleOutput{Body: resp}, nil
}

// GetExecutedDatesInput is the Huma input for the execution history.
type GetExecutedDatesInput struct {
	UserID string `header:"X-User-ID" required:"true" doc:"Caller's user UUID"`
}

// GetExecutedDatesResponseBody maps template UUIDs to their execution dates.
type GetExecutedDatesResponseBody struct {
	Executed map[string][]string `json:"executed" doc:"Execution dates keyed by template UUID"`
}

// GetExecutedDatesOutput is the Huma output for the execution history.
type GetExecutedDatesOutput struct {
	Body GetExecutedDatesResponseBody
}

// executedDatesReader is the service slice the executed-dates handler needs.
type executedDatesReader interface {
	ExecutedDates(ctx context.Context, userID uuid.UUID) (map[uuid.UUID][]time.Time, error)
}

// GetExecutedDatesHandler handles GET /v1/recurring/executed.
type GetExecutedDatesHandler struct {
	RecurringService executedDatesReader
}

// NewGetExecutedDatesHandler creates a new GetExecutedDatesHandler.
func NewGetExecutedDatesHandler(svc executedDatesReader) *GetExecutedDatesHandler {
	return &GetExecutedDatesHandler{RecurringService: svc}
}

// Register registers the executed dates endpoint with the Huma API.
func (h *GetExecutedDatesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-recurring-executed-dates",
		Method:      http.MethodGet,
		Path:        "/v1/recurring/executed",
		Summary:     "Get recurring execution history",
		Tags:        []string{"Recurring"},
	}, h.handle)
}

func (h *GetExecutedDatesHandler) handle(ctx context.Context, input *GetExecutedDatesInput) (*GetExecutedDatesOutput, error) {
	userID, err := apiutil.ParseUserID(input.UserID)
	if err != nil {
		return nil, err
	}

	executed, err := h.RecurringService.ExecutedDates(ctx, userID)
	if err != nil {
		return nil, apiutil.MapError(err, "failed to get execution history")
	}

	resp := GetExecutedDatesResponseBody{
		Executed: make(map[string][]string, len(executed)),
	}
	for templateID, dates := range executed {
		formatted := make([]string, len(dates))
		for i, date := range dates {
			formatted[i] = date.Format(time.RFC3339)
		}
		resp.Executed[templateID.String()] = formatted
	}
	return &GetExecutedDatesOutput{Body: resp}, nil
}
