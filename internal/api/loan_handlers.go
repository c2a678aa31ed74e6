package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shelfline/shelfline-server/internal/domain"
	"github.com/shelfline/shelfline-server/internal/http/response"
	"github.com/shelfline/shelfline-server/internal/service"
)

// LoanResponse is the body for successful loan operations.
type LoanResponse struct {
	Message string       `json:"message"`
	Loan    *domain.Loan `json:"loan"`
}

// LoanBody wraps a loan for lookup responses.
type LoanBody struct {
	Loan *domain.Loan `json:"loan"`
}

// handleCreateLoan creates a loan after checking the book with the inventory
// service.
func (s *LoanServer) handleCreateLoan(w http.ResponseWriter, r *http.Request) {
	var req service.CreateLoanRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	loan, err := s.loanService.CreateLoan(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.JSON(w, http.StatusCreated, LoanResponse{
		Message: "Loan created successfully",
		Loan:    loan,
	}, s.logger)
}

// handleReturnLoan transitions a borrowed loan to returned.
func (s *LoanServer) handleReturnLoan(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "id")

	loan, err := s.loanService.ReturnLoan(r.Context(), loanID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.JSON(w, http.StatusOK, LoanResponse{
		Message: "Book returned successfully",
		Loan:    loan,
	}, s.logger)
}

// handleGetLoan returns a single loan by ID.
func (s *LoanServer) handleGetLoan(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "id")

	loan, err := s.loanService.GetLoan(r.Context(), loanID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.JSON(w, http.StatusOK, LoanBody{Loan: loan}, s.logger)
}
