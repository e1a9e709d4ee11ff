package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/farmgatehq/farmgate-backend/api/responses"
	"github.com/farmgatehq/farmgate-backend/api/validators"
	"github.com/farmgatehq/farmgate-backend/internal/assignments"
	pkgerrors "github.com/farmgatehq/farmgate-backend/pkg/errors"
	"github.com/farmgatehq/farmgate-backend/pkg/logger"
	"github.com/farmgatehq/farmgate-backend/pkg/pagination"
)

type createAssignmentRequest struct {
	AgentUserID uuid.UUID                         `json:"agent_user_id" validate:"required"`
	Items       []assignments.AssignmentItemInput `json:"items" validate:"required,min=1,dive"`
}

// CreateAssignment hands warehouse stock to a field agent.
func CreateAssignment(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignments service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createAssignmentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := assignments.CreateAssignmentInput{
			AgentUserID: req.AgentUserID,
			Items:       req.Items,
		}
		if actorID != req.AgentUserID {
			input.CreatedByUserID = &actorID
		}

		assignment, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, assignment)
	}
}

// AssignmentDetail returns one assignment with its item ledger.
func AssignmentDetail(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignments service unavailable"))
			return
		}

		assignmentID, err := parseAssignmentID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		assignment, err := svc.Get(r.Context(), assignmentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, assignment)
	}
}

// MyAssignments pages through the calling agent's assignments.
func MyAssignments(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignments service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		list, err := svc.ListForAgent(r.Context(), actorID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

type assignmentItemMutation struct {
	ItemID uuid.UUID `json:"item_id" validate:"required"`
	Qty    int       `json:"qty" validate:"gt=0"`
}

// RecordAssignmentSale marks units of an assignment item as sold on site.
func RecordAssignmentSale(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignments service unavailable"))
			return
		}

		assignmentID, actorID, req, err := decodeItemMutation(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RecordSale(r.Context(), assignments.RecordSaleInput{
			AssignmentID: assignmentID,
			ItemID:       req.ItemID,
			Qty:          req.Qty,
			ActorUserID:  actorID,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"assignment_id": assignmentID, "item_id": req.ItemID, "sold": req.Qty})
	}
}

// ReturnAssignmentStock brings unsold units back into warehouse stock.
func ReturnAssignmentStock(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignments service unavailable"))
			return
		}

		assignmentID, actorID, req, err := decodeItemMutation(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ReturnUnsold(r.Context(), assignments.ReturnUnsoldInput{
			AssignmentID: assignmentID,
			ItemID:       req.ItemID,
			Qty:          req.Qty,
			ActorUserID:  actorID,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"assignment_id": assignmentID, "item_id": req.ItemID, "returned": req.Qty})
	}
}

type closeAssignmentRequest struct {
	Cancel bool `json:"cancel,omitempty"`
}

// CloseAssignment finalizes an assignment, sweeping any unsold remainder
// back into warehouse stock.
func CloseAssignment(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignments service unavailable"))
			return
		}

		assignmentID, err := parseAssignmentID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req closeAssignmentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Close(r.Context(), assignments.CloseAssignmentInput{
			AssignmentID: assignmentID,
			Cancel:       req.Cancel,
			ActorUserID:  actorID,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		assignment, err := svc.Get(r.Context(), assignmentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, assignment)
	}
}

func decodeItemMutation(r *http.Request) (uuid.UUID, uuid.UUID, *assignmentItemMutation, error) {
	assignmentID, err := parseAssignmentID(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, nil, err
	}
	actorID, err := actorFromContext(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, nil, err
	}
	var req assignmentItemMutation
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		return uuid.Nil, uuid.Nil, nil, err
	}
	return assignmentID, actorID, &req, nil
}

func parseAssignmentID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "assignmentId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "assignment id is required")
	}
	assignmentID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid assignment id")
	}
	return assignmentID, nil
}
