package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lendcore/internal/adapter/middleware"
	"lendcore/internal/usecase/payment"
)

type PaymentHandler struct{ uc *payment.Usecase }

func NewPaymentHandler(uc *payment.Usecase) *PaymentHandler { return &PaymentHandler{uc: uc} }

type submitPaymentReq struct {
	LoanID      string  `json:"loan_id"      validate:"required"`
	LenderID    string  `json:"lender_id"    validate:"required"`
	Amount      float64 `json:"amount"       validate:"required,gt=0,dec2"`
	PaymentDate string  `json:"payment_date" validate:"required,datetime=2006-01-02"`
	Notes       string  `json:"notes"        validate:"max=1000"`
	ReceiptKey  string  `json:"receipt_key"  validate:"max=512"`
}

type approvePaymentReq struct {
	Notes string `json:"notes" validate:"max=1000"`
}

type rejectPaymentReq struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

type uploadURLReq struct {
	LoanID   string `json:"loan_id"   validate:"required"`
	LenderID string `json:"lender_id" validate:"required"`
	FileName string `json:"file_name" validate:"required,max=255"`
	FileType string `json:"file_type" validate:"required"`
}

func (h *PaymentHandler) Submit(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing principal"})
	}
	var req submitPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Submit(c.Request().Context(), p, payment.SubmitPaymentInput(req))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *PaymentHandler) ListByLoan(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing principal"})
	}
	loanID := c.Param("loan_id")
	if loanID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing loan_id path param"})
	}
	out, err := h.uc.List(c.Request().Context(), p, loanID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"payments": out, "total": len(out)})
}

func (h *PaymentHandler) Get(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing principal"})
	}
	paymentID := c.Param("payment_id")
	if paymentID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing payment_id path param"})
	}
	dto, err := h.uc.Get(c.Request().Context(), p, paymentID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *PaymentHandler) Approve(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing principal"})
	}
	paymentID := c.Param("payment_id")
	if paymentID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing payment_id path param"})
	}
	var req approvePaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	res, err := h.uc.Approve(c.Request().Context(), p, paymentID, req.Notes)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *PaymentHandler) Reject(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing principal"})
	}
	paymentID := c.Param("payment_id")
	if paymentID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing payment_id path param"})
	}
	var req rejectPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	res, err := h.uc.Reject(c.Request().Context(), p, paymentID, req.Reason)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *PaymentHandler) UploadURL(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing principal"})
	}
	var req uploadURLReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	res, err := h.uc.UploadURL(c.Request().Context(), p, payment.UploadURLInput(req))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *PaymentHandler) ReceiptURL(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing principal"})
	}
	paymentID := c.Param("payment_id")
	if paymentID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing payment_id path param"})
	}
	res, err := h.uc.ReceiptURL(c.Request().Context(), p, paymentID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
