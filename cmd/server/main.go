package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	emailPkg "inoffice/internal/adapters/email"
	web "inoffice/internal/adapters/http"
	"inoffice/internal/adapters/http/perf"
	"inoffice/internal/adapters/storage"
	accountStore "inoffice/internal/adapters/storage/account"
	attendanceStore "inoffice/internal/adapters/storage/attendance"
	"inoffice/internal/application/orchestrators"
	"inoffice/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load(os.Getenv("INOFFICE_CONFIG"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	// NewMux and the cookie layer read these from the environment, so values
	// coming from the TOML file are exported here.
	os.Setenv("INOFFICE_ENV", cfg.Env)
	if cfg.CSRFKey != "" {
		os.Setenv("INOFFICE_CSRF_KEY", cfg.CSRFKey)
	}

	// Open database with WAL mode, foreign keys, and busy timeout
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	log.Println("Database initialized")

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	acctStore := accountStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore:    acctStore,
		AttendanceStore: attendanceStore.NewSQLiteStore(timedDB),
	}

	// Configure email sender
	var sender emailPkg.Sender
	if cfg.ResendKey != "" {
		sender = emailPkg.NewResendSender(cfg.ResendKey, cfg.EmailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		if cfg.IsProduction() {
			log.Println("WARNING: INOFFICE_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set INOFFICE_RESEND_KEY for real delivery)")
		}
	}
	web.SetEmailSender(sender, cfg.EmailFrom)

	// Seed default admin account if no accounts exist
	seedDeps := orchestrators.CreateAccountDeps{
		AccountStore: acctStore,
		EmailSender:  sender,
		EmailFrom:    cfg.EmailFrom,
	}
	if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedDeps, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	mux := web.NewMux(cfg.StaticDir, stores, collector)

	log.Printf("InOffice %s starting on %s (env=%s)", version, cfg.Addr, cfg.Env)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
