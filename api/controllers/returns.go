package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/farmgatehq/farmgate-backend/api/responses"
	"github.com/farmgatehq/farmgate-backend/api/validators"
	"github.com/farmgatehq/farmgate-backend/internal/returns"
	pkgerrors "github.com/farmgatehq/farmgate-backend/pkg/errors"
	"github.com/farmgatehq/farmgate-backend/pkg/logger"
)

type processReturnRequest struct {
	OrderItemID uuid.UUID `json:"order_item_id" validate:"required"`
	Quantity    int       `json:"quantity" validate:"gt=0"`
	Reason      string    `json:"reason" validate:"required"`
}

// ProcessReturn applies a customer return against an order line and restocks
// the product.
func ProcessReturn(svc returns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "returns service unavailable"))
			return
		}

		actorID, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req processReturnRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Process(r.Context(), returns.ProcessReturnInput{
			OrderItemID: req.OrderItemID,
			Quantity:    req.Quantity,
			Reason:      req.Reason,
			ActorUserID: actorID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// OrderReturns lists the return audit trail for one order.
func OrderReturns(svc returns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "returns service unavailable"))
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.ListForOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"returns": records})
	}
}
