package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lendcore/internal/adapter/middleware"
	"lendcore/internal/usecase/funding"
)

type LenderHandler struct{ uc *funding.Usecase }

func NewLenderHandler(uc *funding.Usecase) *LenderHandler { return &LenderHandler{uc: uc} }

type acceptInvitationReq struct {
	ACHDetails achDetailsReq `json:"ach_details" validate:"required"`
}

type achDetailsReq struct {
	BankName            string `json:"bank_name"            validate:"required,max=200"`
	AccountType         string `json:"account_type"         validate:"required,oneof=checking savings"`
	RoutingNumber       string `json:"routing_number"       validate:"required,routing9"`
	AccountNumber       string `json:"account_number"       validate:"required,acctnum"`
	SpecialInstructions string `json:"special_instructions" validate:"max=500"`
}

type resolveLenderReq struct {
	Email  string `json:"email"   validate:"required,email"`
	UserID string `json:"user_id" validate:"required"`
	Name   string `json:"name"    validate:"max=200"`
}

func (h *LenderHandler) PendingInvitations(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing principal"})
	}
	out, err := h.uc.PendingInvitations(c.Request().Context(), p)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"invitations": out, "total": len(out)})
}

func (h *LenderHandler) AcceptInvitation(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing principal"})
	}
	loanID := c.Param("loan_id")
	if loanID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing loan_id path param"})
	}
	var req acceptInvitationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	res, err := h.uc.RespondToInvitation(c.Request().Context(), p, loanID, true, &funding.ACHInput{
		BankName:            req.ACHDetails.BankName,
		AccountType:         req.ACHDetails.AccountType,
		RoutingNumber:       req.ACHDetails.RoutingNumber,
		AccountNumber:       req.ACHDetails.AccountNumber,
		SpecialInstructions: req.ACHDetails.SpecialInstructions,
	})
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *LenderHandler) DeclineInvitation(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing principal"})
	}
	loanID := c.Param("loan_id")
	if loanID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing loan_id path param"})
	}
	res, err := h.uc.RespondToInvitation(c.Request().Context(), p, loanID, false, nil)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// SearchLenders lists the borrower's previously accepted lenders with
// aggregate stats, filtered by the optional q parameter.
func (h *LenderHandler) SearchLenders(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing principal"})
	}
	out, err := h.uc.SearchLenders(c.Request().Context(), p, c.QueryParam("q"))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"lenders": out, "total": len(out)})
}

// ResolveLender links historical email-only invitations to a registered
// account. Sits behind the internal-token guard, not JWT.
func (h *LenderHandler) ResolveLender(c echo.Context) error {
	var req resolveLenderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	n, err := h.uc.ResolveLender(c.Request().Context(), funding.ResolveLenderInput(req))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"resolved": n})
}
