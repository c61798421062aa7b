package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"inoffice/internal/adapters/http/middleware"
	"inoffice/internal/application/attendanceset"
	"inoffice/internal/application/orchestrators"
	"inoffice/internal/application/projections"
	accountDomain "inoffice/internal/domain/account"
	"inoffice/internal/domain/backup"
	"inoffice/internal/domain/datekey"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// registerRoutes wires all API endpoints onto the mux. The root path serves
// the SPA's static files and is registered by NewMux.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/login", handleLogin)
	mux.HandleFunc("/api/logout", handleLogout)
	mux.HandleFunc("/api/me", handleMe)
	mux.HandleFunc("/api/password", handleChangePassword)
	mux.HandleFunc("/api/attendance", handleAttendance)
	mux.HandleFunc("/api/attendance/toggle", handleAttendanceToggle)
	mux.HandleFunc("/api/attendance/export", handleAttendanceExport)
	mux.HandleFunc("/api/attendance/import", handleAttendanceImport)
	mux.HandleFunc("/api/stats", handleStats)
	mux.Handle("/api/accounts", middleware.RequireRole(accountDomain.RoleAdmin)(http.HandlerFunc(handleAccounts)))
	mux.Handle("/api/accounts/delete", middleware.RequireRole(accountDomain.RoleAdmin)(http.HandlerFunc(handleAccountsDelete)))
	mux.Handle("/api/perf", middleware.RequireRole(accountDomain.RoleAdmin)(http.HandlerFunc(handlePerf)))
	mux.HandleFunc("/help", handleHelp)
}

// requireSession extracts the session or writes a 401.
func requireSession(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}
	return session, ok
}

// currentSet returns the attendance set for the session's account, hydrating
// it on first access.
func currentSet(r *http.Request, session middleware.Session) *attendanceset.Store {
	return attendanceSets.ForAccount(r.Context(), session.AccountID)
}

// handleLogin handles POST /api/login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Email:    body.Email,
		Password: body.Password,
	}, orchestrators.LoginDeps{AccountStore: stores.AccountStore})
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, orchestrators.ErrAccountLocked) {
			status = http.StatusLocked
		}
		http.Error(w, err.Error(), status)
		return
	}

	token, err := sessions.Create(result.AccountID, result.Email, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)

	writeJSON(w, map[string]string{
		"accountId": result.AccountID,
		"email":     result.Email,
		"role":      result.Role,
	})
}

// handleLogout handles POST /api/logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if session, ok := middleware.GetSessionFromContext(r.Context()); ok {
		attendanceSets.Drop(session.AccountID)
	}
	if cookie, err := r.Cookie("inoffice_session"); err == nil {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleMe handles GET /api/me
func handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, ok := requireSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, map[string]string{
		"accountId": session.AccountID,
		"email":     session.Email,
		"role":      session.Role,
	})
}

// handleChangePassword handles POST /api/password
func handleChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var body struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err := orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput{
		AccountID:       session.AccountID,
		CurrentPassword: body.CurrentPassword,
		NewPassword:     body.NewPassword,
	}, orchestrators.ChangePasswordDeps{AccountStore: stores.AccountStore})
	switch {
	case errors.Is(err, orchestrators.ErrCurrentPasswordWrong):
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAttendance handles GET /api/attendance?start=&end=
// Without a range it returns the full set; with one it returns the days in
// [start, end] inclusive.
func handleAttendance(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	set := currentSet(r, session)
	snap := set.Snapshot()

	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	days := snap.Days
	if start != "" || end != "" {
		if !datekey.Valid(start) || !datekey.Valid(end) {
			http.Error(w, "start and end must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		filtered := make([]string, 0, len(days))
		for _, d := range days {
			if datekey.InRange(d, start, end) {
				filtered = append(filtered, d)
			}
		}
		days = filtered
	}

	writeJSON(w, map[string]any{
		"days":      days,
		"loading":   snap.Loading,
		"lastError": snap.LastError,
	})
}

// handleAttendanceToggle handles POST /api/attendance/toggle {"date":"YYYY-MM-DD"}
func handleAttendanceToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var body struct {
		Date string `json:"date"`
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	set := currentSet(r, session)
	present, err := set.Toggle(r.Context(), body.Date)
	switch {
	case errors.Is(err, datekey.ErrInvalidFormat), errors.Is(err, datekey.ErrInvalidCalendarDate):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, attendanceset.ErrToggleFailed):
		// The set already rolled back; surface the user-facing message.
		http.Error(w, attendanceset.ErrToggleFailed.Error(), http.StatusBadGateway)
		return
	case err != nil:
		internalError(w, err)
		return
	}

	writeJSON(w, map[string]any{
		"present": present,
		"days":    set.Snapshot().Days,
	})
}

// handleAttendanceExport handles GET /api/attendance/export
func handleAttendanceExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	repo := currentSet(r, session).Repository()
	keys, err := repo.ExportAll(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}

	filename := "inoffice-backup-" + datekey.FromTime(timeNow()) + ".json"
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := backup.Write(w, keys); err != nil {
		slog.Error("export_write_failed", "error", err)
	}
}

// handleAttendanceImport handles POST /api/attendance/import?mode=replace|merge
func handleAttendanceImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	result, err := orchestrators.ExecuteImportBackup(r.Context(), orchestrators.ImportBackupInput{
		Body: r.Body,
		Mode: r.URL.Query().Get("mode"),
	}, orchestrators.ImportBackupDeps{Set: currentSet(r, session)})
	switch {
	case errors.Is(err, backup.ErrInvalidMode),
		errors.Is(err, backup.ErrNotArray),
		errors.Is(err, backup.ErrTooManyEntries),
		errors.Is(err, datekey.ErrInvalidFormat),
		errors.Is(err, datekey.ErrInvalidCalendarDate):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		internalError(w, err)
		return
	}

	writeJSON(w, map[string]int{
		"imported": result.Imported,
		"total":    result.Total,
	})
}

// handleStats handles GET /api/stats?month=YYYY-MM&window=N
func handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	query := projections.GetAttendanceSummaryQuery{
		Month: r.URL.Query().Get("month"),
		Now:   timeNow(),
	}
	if windowParam := r.URL.Query().Get("window"); windowParam != "" {
		n, err := strconv.Atoi(windowParam)
		if err != nil || n < 1 {
			http.Error(w, "window must be a positive integer", http.StatusBadRequest)
			return
		}
		query.WindowDays = n
	}

	result, err := projections.QueryGetAttendanceSummary(r.Context(), query,
		projections.GetAttendanceSummaryDeps{Set: currentSet(r, session)})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, result)
}

// handlePerf handles GET /api/perf (admin only, role enforced by middleware)
func handlePerf(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, perfCollector.Snapshot(20))
}
