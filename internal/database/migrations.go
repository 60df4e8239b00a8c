package database

import (
	"fmt"

	"github.com/aokumura/issue-tracker-api/internal/logger"
	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes beyond what AutoMigrate
// creates. Postgres only; other drivers rely on the tag-level indexes.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"tickets", "idx_tickets_project_status", "project_id, status"},
		{"tickets", "idx_tickets_assigned_to", "assigned_to"},
		{"comments", "idx_comments_ticket_created", "ticket_id, created_at"},
		{"project_members", "idx_project_members_user_id", "user_id"},
		{"attachments", "idx_attachments_ticket_id", "ticket_id"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Scan(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logger.Info().Str("index", idx.name).Str("table", idx.table).Msg("created index")
	}

	return nil
}
