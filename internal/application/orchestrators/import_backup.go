package orchestrators

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"inoffice/internal/application/attendanceset"
	"inoffice/internal/domain/backup"
)

// ImportBackupInput carries input for the backup import orchestrator.
type ImportBackupInput struct {
	Body io.Reader // backup document (JSON array of date keys)
	Mode string    // backup.ModeReplace or backup.ModeMerge
}

// ImportBackupResult reports what the import changed.
type ImportBackupResult struct {
	Imported int // entries in the backup document
	Total    int // days present after the import
}

// ImportBackupDeps holds dependencies for ImportBackup.
type ImportBackupDeps struct {
	Set *attendanceset.Store
}

// ExecuteImportBackup validates a backup document and applies it through the
// bound repository, then updates the in-memory set to match.
// PRE: Set is bound to a repository
// POST: On success the persisted data and the in-memory set both reflect the
// import; on any validation error nothing is written
func ExecuteImportBackup(ctx context.Context, input ImportBackupInput, deps ImportBackupDeps) (ImportBackupResult, error) {
	if !backup.ValidMode(input.Mode) {
		return ImportBackupResult{}, backup.ErrInvalidMode
	}

	keys, err := backup.Parse(input.Body)
	if err != nil {
		return ImportBackupResult{}, err
	}

	repo := deps.Set.Repository()
	if repo == nil {
		return ImportBackupResult{}, attendanceset.ErrNotBound
	}

	if err := repo.BulkImport(ctx, keys, input.Mode); err != nil {
		return ImportBackupResult{}, fmt.Errorf("failed to import backup: %w", err)
	}

	switch input.Mode {
	case backup.ModeReplace:
		deps.Set.ReplaceAll(keys)
	case backup.ModeMerge:
		deps.Set.MergeWith(keys)
	}

	total := len(deps.Set.Snapshot().Days)
	slog.Info("backup_imported", "mode", input.Mode, "entries", len(keys), "total", total)

	return ImportBackupResult{Imported: len(keys), Total: total}, nil
}
