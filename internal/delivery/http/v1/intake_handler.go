package v1

import (
	"context"
	"errors"
	"io"
	"net/http"

	"leadgen-backend/internal/delivery/http/middleware"
	"leadgen-backend/internal/delivery/http/response"
	"leadgen-backend/internal/domain"
	"leadgen-backend/pkg/apperror"
	"leadgen-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// Success messages returned to the marketing site
const (
	MsgContactSubmitted  = "Contact form submitted successfully"
	MsgBookCallSubmitted = "Call booking submitted successfully"
	MsgOrderSubmitted    = "Order submitted successfully"
)

type IntakeHandler struct {
	intakeUC     domain.IntakeUsecase
	secLog       *security.SecurityLogger
	maxBodyBytes int64
}

// NewIntakeHandler registers the three public form routes. Every handler in
// guard (the shared rate limiter) runs before each of them.
func NewIntakeHandler(public *gin.RouterGroup, intakeUC domain.IntakeUsecase, secLog *security.SecurityLogger, maxBodyBytes int64, guard ...gin.HandlerFunc) {
	handler := &IntakeHandler{
		intakeUC:     intakeUC,
		secLog:       secLog,
		maxBodyBytes: maxBodyBytes,
	}

	chain := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, guard...), h)
	}
	public.POST("/contact", chain(handler.SubmitContact)...)
	public.POST("/book-call", chain(handler.SubmitBookCall)...)
	public.POST("/order", chain(handler.SubmitOrder)...)
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Validate and store a contact form submission, then notify the team.
// @Tags         intake
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactRequest  true  "Contact Form Data"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      429      {object}  map[string]string
// @Failure      500      {object}  response.Response
// @Router       /contact [post]
func (h *IntakeHandler) SubmitContact(c *gin.Context) {
	h.submit(c, domain.KindContact, MsgContactSubmitted, func(ctx context.Context, body []byte) error {
		_, err := h.intakeUC.SubmitContact(ctx, body)
		return err
	})
}

// SubmitBookCall godoc
// @Summary      Book a Discovery Call
// @Description  Validate and store a call booking request, then notify the team.
// @Tags         intake
// @Accept       json
// @Produce      json
// @Param        booking  body      domain.BookCallRequest  true  "Booking Data"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      429      {object}  map[string]string
// @Failure      500      {object}  response.Response
// @Router       /book-call [post]
func (h *IntakeHandler) SubmitBookCall(c *gin.Context) {
	h.submit(c, domain.KindBookCall, MsgBookCallSubmitted, func(ctx context.Context, body []byte) error {
		_, err := h.intakeUC.SubmitBookCall(ctx, body)
		return err
	})
}

// SubmitOrder godoc
// @Summary      Submit Lead-List Order
// @Description  Validate and store an order from the order wizard, then notify the team.
// @Tags         intake
// @Accept       json
// @Produce      json
// @Param        order  body      domain.OrderRequest  true  "Order Data"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      429    {object}  map[string]string
// @Failure      500    {object}  response.Response
// @Router       /order [post]
func (h *IntakeHandler) SubmitOrder(c *gin.Context) {
	h.submit(c, domain.KindOrder, MsgOrderSubmitted, func(ctx context.Context, body []byte) error {
		_, err := h.intakeUC.SubmitOrder(ctx, body)
		return err
	})
}

func (h *IntakeHandler) submit(c *gin.Context, kind domain.Kind, successMsg string, run func(context.Context, []byte) error) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Fail(c, apperror.PayloadTooLarge(err))
			return
		}
		response.Fail(c, apperror.InvalidSubmission(err))
		return
	}

	if err := run(c.Request.Context(), body); err != nil {
		if errors.Is(err, domain.ErrSpam) {
			h.secLog.LogSpamRejected(c.Request.Context(), c.ClientIP(), c.GetHeader("User-Agent"), c.GetString(middleware.RequestIDKey), string(kind))
		}
		// Store failures are already logged with kind and timestamp by the usecase
		response.Fail(c, intakeFailure(err))
		return
	}
	response.Success(c, http.StatusOK, successMsg, nil)
}

// intakeFailure maps usecase errors onto client responses. Spam and malformed
// bodies share one response.
func intakeFailure(err error) *apperror.AppError {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		return apperror.Invalid(vErr.Violations)
	case errors.Is(err, domain.ErrSpam), errors.Is(err, domain.ErrMalformedPayload):
		return apperror.InvalidSubmission(err)
	default:
		return apperror.Internal(err)
	}
}
