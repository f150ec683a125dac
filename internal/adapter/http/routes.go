package http

import (
	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Health  *Handler
	Loan    *LoanHandler
	Lender  *LenderHandler
	Payment *PaymentHandler
}

// RegisterRoutes mounts the API surface. authn guards user routes, idemp
// wraps mutating ones, internal guards service-to-service routes.
func RegisterRoutes(e *echo.Echo, h Handlers, authn, idemp, internal echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)

	api := e.Group("", authn, idemp)

	api.POST("/loans", h.Loan.CreateLoan)
	api.GET("/loans/my-loans", h.Loan.MyLoans)
	api.GET("/loans/:loan_id", h.Loan.GetLoan)
	api.POST("/loans/:loan_id/lenders", h.Loan.AddLenders)

	api.GET("/lender/pending", h.Lender.PendingInvitations)
	api.GET("/lenders/search", h.Lender.SearchLenders)
	api.PUT("/lender/accept/:loan_id", h.Lender.AcceptInvitation)
	api.PUT("/lender/decline/:loan_id", h.Lender.DeclineInvitation)

	api.POST("/payments", h.Payment.Submit)
	api.GET("/payments/loan/:loan_id", h.Payment.ListByLoan)
	api.GET("/payments/:payment_id", h.Payment.Get)
	api.PUT("/payments/:payment_id/approve", h.Payment.Approve)
	api.PUT("/payments/:payment_id/reject", h.Payment.Reject)
	api.POST("/payments/receipt-upload-url", h.Payment.UploadURL)
	api.GET("/payments/:payment_id/receipt-url", h.Payment.ReceiptURL)

	e.POST("/internal/lenders/resolve", h.Lender.ResolveLender, internal)
}
