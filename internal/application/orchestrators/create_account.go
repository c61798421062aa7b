package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"inoffice/internal/adapters/email"
	"inoffice/internal/domain/account"

	"github.com/google/uuid"
)

// AccountStoreForCreate defines the store interface needed by CreateAccount.
type AccountStoreForCreate interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	Count(ctx context.Context) (int, error)
}

// CreateAccountInput carries input for the orchestrator.
type CreateAccountInput struct {
	Email    string
	Password string
	Role     string
}

// CreateAccountDeps holds dependencies for CreateAccount.
type CreateAccountDeps struct {
	AccountStore AccountStoreForCreate
	EmailSender  email.Sender
	EmailFrom    string
}

var ErrEmailAlreadyExists = errors.New("an account with this email already exists")

// ExecuteCreateAccount coordinates account creation.
// PRE: Valid email, password >= 12 chars, valid role
// POST: Account created with hashed password; welcome email sent best-effort
// INVARIANT: Email must be unique
func ExecuteCreateAccount(ctx context.Context, input CreateAccountInput, deps CreateAccountDeps) (string, error) {
	if input.Email == "" {
		return "", errors.New("email cannot be empty")
	}
	if input.Password == "" {
		return "", errors.New("password cannot be empty")
	}
	if input.Role == "" {
		return "", errors.New("role cannot be empty")
	}

	// Check if email already exists
	_, err := deps.AccountStore.GetByEmail(ctx, input.Email)
	if err == nil {
		return "", ErrEmailAlreadyExists
	}

	acct := account.Account{
		ID:        uuid.New().String(),
		Email:     input.Email,
		Role:      input.Role,
		CreatedAt: time.Now(),
	}

	if err := acct.Validate(); err != nil {
		return "", err
	}

	// Set password (handles hashing and length validation)
	if err := acct.SetPassword(input.Password); err != nil {
		return "", err
	}

	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return "", err
	}

	slog.Info("auth_event", "event", "account_created", "email", input.Email, "role", input.Role)

	// Welcome email is best-effort: a send failure never fails the creation.
	if deps.EmailSender != nil {
		sendWelcomeEmail(ctx, deps, acct)
	}

	return acct.ID, nil
}

func sendWelcomeEmail(ctx context.Context, deps CreateAccountDeps, acct account.Account) {
	req := email.SendRequest{
		To:      []string{acct.Email},
		From:    deps.EmailFrom,
		Subject: "Welcome to InOffice",
		HTML: fmt.Sprintf(
			"<p>Your InOffice account <strong>%s</strong> is ready.</p>"+
				"<p>Log in to start tracking your office days.</p>",
			acct.Email),
	}
	if _, err := deps.EmailSender.Send(ctx, req); err != nil {
		slog.Warn("welcome_email_failed", "email", acct.Email, "error", err)
	}
}

// ExecuteSeedAdmin creates a default admin account if no accounts exist.
// PRE: Database is initialized
// POST: Admin account created if count == 0
func ExecuteSeedAdmin(ctx context.Context, deps CreateAccountDeps, adminEmail, adminPassword string) error {
	count, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil // Accounts already exist, skip seeding
	}
	if adminPassword == "" {
		return errors.New("admin password is required to seed the first account")
	}

	_, err = ExecuteCreateAccount(ctx, CreateAccountInput{
		Email:    adminEmail,
		Password: adminPassword,
		Role:     account.RoleAdmin,
	}, deps)
	if err != nil {
		return err
	}

	slog.Info("auth_event", "event", "admin_seeded", "email", adminEmail)
	return nil
}
