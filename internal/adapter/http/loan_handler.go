package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lendcore/internal/adapter/middleware"
	"lendcore/internal/usecase/funding"
)

type LoanHandler struct{ uc *funding.Usecase }

func NewLoanHandler(uc *funding.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type lenderInviteReq struct {
	Email              string  `json:"email"                validate:"required,email"`
	ContributionAmount float64 `json:"contribution_amount"  validate:"required,gt=0,dec2"`
}

type maturityTermsReq struct {
	StartDate        string `json:"start_date"         validate:"required,datetime=2006-01-02"`
	PaymentFrequency string `json:"payment_frequency"  validate:"required,freq"`
	TermLength       int    `json:"term_length"        validate:"required,gte=1,lte=60"`
}

type createLoanReq struct {
	LoanName      string            `json:"loan_name"      validate:"required,max=200"`
	Amount        float64           `json:"amount"         validate:"required,gte=1000,lte=1000000,dec2"`
	InterestRate  float64           `json:"interest_rate"  validate:"required,gt=0,lte=50"`
	MaturityTerms maturityTermsReq  `json:"maturity_terms" validate:"required"`
	Purpose       string            `json:"purpose"        validate:"required,max=100"`
	Description   string            `json:"description"    validate:"omitempty,min=10,max=1000"`
	Lenders       []lenderInviteReq `json:"lenders"        validate:"max=20,dive"`
}

type addLendersReq struct {
	Lenders []lenderInviteReq `json:"lenders" validate:"required,min=1,max=20,dive"`
}

func invites(in []lenderInviteReq) []funding.LenderInvite {
	out := make([]funding.LenderInvite, 0, len(in))
	for _, l := range in {
		out = append(out, funding.LenderInvite{Email: l.Email, ContributionAmount: l.ContributionAmount})
	}
	return out
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing principal"})
	}
	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.CreateLoan(c.Request().Context(), p, funding.CreateLoanInput{
		LoanName:     req.LoanName,
		Amount:       req.Amount,
		InterestRate: req.InterestRate,
		MaturityTerms: funding.MaturityTermsInput{
			StartDate:        req.MaturityTerms.StartDate,
			PaymentFrequency: req.MaturityTerms.PaymentFrequency,
			TermLength:       req.MaturityTerms.TermLength,
		},
		Purpose:     req.Purpose,
		Description: req.Description,
		Lenders:     invites(req.Lenders),
	})
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) MyLoans(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing principal"})
	}
	out, err := h.uc.MyLoans(c.Request().Context(), p)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"loans": out, "total": len(out)})
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing principal"})
	}
	loanID := c.Param("loan_id")
	if loanID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing loan_id path param"})
	}
	view, err := h.uc.GetLoanView(c.Request().Context(), p, loanID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *LoanHandler) AddLenders(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing principal"})
	}
	loanID := c.Param("loan_id")
	if loanID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing loan_id path param"})
	}
	var req addLendersReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	res, err := h.uc.AddLenders(c.Request().Context(), p, loanID, invites(req.Lenders))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
