package web

import (
	"errors"
	"net/http"

	"inoffice/internal/adapters/http/middleware"
	"inoffice/internal/application/orchestrators"
	accountDomain "inoffice/internal/domain/account"
)

// handleAccounts handles POST /api/accounts (admin only, role enforced by
// middleware). Creates an account and sends the welcome email best-effort.
func handleAccounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.Role == "" {
		body.Role = accountDomain.RoleUser
	}

	accountID, err := orchestrators.ExecuteCreateAccount(r.Context(), orchestrators.CreateAccountInput{
		Email:    body.Email,
		Password: body.Password,
		Role:     body.Role,
	}, orchestrators.CreateAccountDeps{
		AccountStore: stores.AccountStore,
		EmailSender:  emailSender,
		EmailFrom:    emailFromAddress,
	})
	switch {
	case errors.Is(err, orchestrators.ErrEmailAlreadyExists):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]string{
		"accountId": accountID,
		"email":     body.Email,
		"role":      body.Role,
	})
}

// handleAccountsDelete handles POST /api/accounts/delete (admin only).
// Removes the account, its attendance data, its sessions and its in-memory
// attendance set. Admins cannot delete themselves.
func handleAccountsDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		AccountID string `json:"accountId"`
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.AccountID == session.AccountID {
		http.Error(w, "cannot delete the account you are logged in as", http.StatusBadRequest)
		return
	}

	err := orchestrators.ExecuteDeleteAccount(r.Context(), body.AccountID, orchestrators.DeleteAccountDeps{
		AccountStore:    stores.AccountStore,
		AttendanceStore: stores.AttendanceStore,
	})
	switch {
	case errors.Is(err, orchestrators.ErrAccountNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		internalError(w, err)
		return
	}

	sessions.DeleteByAccount(body.AccountID)
	attendanceSets.Drop(body.AccountID)
	w.WriteHeader(http.StatusNoContent)
}
