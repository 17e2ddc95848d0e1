package ledger

import (
	"net/http"

	"clinic/infras/otel"
	"clinic/internal/domains/ledger/model/dto"
	"clinic/internal/domains/ledger/service"
	"clinic/shared/constant"
	"clinic/shared/validator"
	"clinic/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Ledger
	otel    otel.Otel
}

func New(service service.Ledger, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/cards", func(routerGroup chi.Router) {
		routerGroup.Get("/my", handler.GetMyCard)
		routerGroup.Post("/topup", handler.TopUp)
	})

	router.Route("/payments", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.Charge)
		routerGroup.Get("/my", handler.GetMyPayments)
	})
}

// GetMyCard retrieves the authenticated patient's card.
// @Summary Get my card
// @Description Retrieve the caller's card number, balance and status.
// @Tags Ledger
// @Accept json
// @Produce json
// @Success 200 {object} dto.CardResponse "Card details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/cards/my [get]
// @Security BearerAuth
func (handler *Handler) GetMyCard(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyCard")
	defer scope.End()

	card, err := handler.service.MyCard(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get card")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Card retrieved successfully")

	response.WithJSON(w, http.StatusOK, card)
}

// TopUp adds funds to the authenticated patient's card.
// @Summary Top up my card
// @Description Add funds to the caller's card, creating the card on first use.
// @Tags Ledger
// @Accept json
// @Produce json
// @Param request body dto.TopUpRequest true "Top Up Request"
// @Success 200 {object} response.Message "Card topped up successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/cards/topup [post]
// @Security BearerAuth
func (handler *Handler) TopUp(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".TopUp")
	defer scope.End()

	req := dto.TopUpRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.TopUp(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to top up card")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Card topped up successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Card topped up successfully")
}

// Charge applies a payment to a booking.
// @Summary Charge a booking
// @Description Pay part or all of a booking's item price from the card balance.
// @Tags Ledger
// @Accept json
// @Produce json
// @Param request body dto.ChargeRequest true "Charge Request"
// @Success 200 {object} response.Message "Payment applied successfully"
// @Failure 400 {object} response.Error
// @Failure 402 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments [post]
// @Security BearerAuth
func (handler *Handler) Charge(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Charge")
	defer scope.End()

	req := dto.ChargeRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Charge(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to charge booking")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Payment applied successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Payment applied successfully")
}

// GetMyPayments retrieves the authenticated patient's payment history.
// @Summary Get my payments
// @Description Retrieve the caller's payments and the total paid so far.
// @Tags Ledger
// @Accept json
// @Produce json
// @Success 200 {object} dto.MyPaymentsResponse "Payments"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments/my [get]
// @Security BearerAuth
func (handler *Handler) GetMyPayments(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyPayments")
	defer scope.End()

	res, err := handler.service.MyPayments(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get payments")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payments retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}
