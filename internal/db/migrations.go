package db

import (
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	embeddedmigrations "github.com/terraincognita07/flowy/migrations"
	"gorm.io/gorm"
)

var (
	migrationNamePattern = regexp.MustCompile(`^(\d+)_[a-z0-9_]+\.sql$`)
	addColumnPattern     = regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+(\S+)\s+ADD\s+COLUMN\s+(\S+)`)
)

// schemaMigration is one row of the bookkeeping table.
type schemaMigration struct {
	Version   string    `gorm:"column:version;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	AppliedAt time.Time `gorm:"column:applied_at;not null"`
}

func (schemaMigration) TableName() string {
	return "schema_migrations"
}

type embeddedMigration struct {
	Version    string
	Order      int
	Name       string
	Statements []string
}

func applyEmbeddedMigrations(database *gorm.DB) error {
	if err := database.AutoMigrate(&schemaMigration{}); err != nil {
		return fmt.Errorf("prepare schema_migrations: %w", err)
	}

	pending, err := loadEmbeddedMigrations()
	if err != nil {
		return err
	}

	var applied []string
	if err := database.Model(&schemaMigration{}).Pluck("version", &applied).Error; err != nil {
		return fmt.Errorf("load applied migrations: %w", err)
	}

	for _, migration := range pending {
		if slices.Contains(applied, migration.Version) {
			continue
		}
		if err := database.Transaction(migration.apply); err != nil {
			return err
		}
	}
	return nil
}

// loadEmbeddedMigrations returns every NNNN_name.sql file ordered by its
// numeric prefix. Two files sharing a prefix is an error.
func loadEmbeddedMigrations() ([]embeddedMigration, error) {
	names, err := fs.Glob(embeddedmigrations.Files, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list embedded migrations: %w", err)
	}

	byVersion := make(map[string]string, len(names))
	migrations := make([]embeddedMigration, 0, len(names))
	for _, name := range names {
		match := migrationNamePattern.FindStringSubmatch(path.Base(name))
		if match == nil {
			continue
		}
		version := match[1]
		if previous, dup := byVersion[version]; dup {
			return nil, fmt.Errorf("migrations %s and %s share version %s", previous, name, version)
		}
		byVersion[version] = name

		order, err := strconv.Atoi(version)
		if err != nil {
			return nil, fmt.Errorf("migration %s: bad version: %w", name, err)
		}
		raw, err := fs.ReadFile(embeddedmigrations.Files, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		statements := splitSQLStatements(string(raw))
		if len(statements) == 0 {
			return nil, fmt.Errorf("migration %s is empty", name)
		}

		migrations = append(migrations, embeddedMigration{
			Version:    version,
			Order:      order,
			Name:       name,
			Statements: statements,
		})
	}

	slices.SortFunc(migrations, func(a, b embeddedMigration) int {
		return a.Order - b.Order
	})
	return migrations, nil
}

func (migration embeddedMigration) apply(tx *gorm.DB) error {
	for _, statement := range migration.Statements {
		skip, err := shouldSkipStatement(tx, statement)
		if err != nil {
			return fmt.Errorf("migration %s: %w", migration.Name, err)
		}
		if skip {
			continue
		}
		if err := tx.Exec(statement).Error; err != nil {
			return fmt.Errorf("migration %s: %q: %w", migration.Name, statement, err)
		}
	}

	return tx.Create(&schemaMigration{
		Version:   migration.Version,
		Name:      migration.Name,
		AppliedAt: time.Now().UTC(),
	}).Error
}

// splitSQLStatements drops "--" comment lines and splits on semicolons.
func splitSQLStatements(sqlText string) []string {
	var body strings.Builder
	for line := range strings.Lines(sqlText) {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		body.WriteString(line)
	}

	var statements []string
	for part := range strings.SplitSeq(body.String(), ";") {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}

// shouldSkipStatement reports whether statement adds a column that already
// exists. SQLite has no ADD COLUMN IF NOT EXISTS.
func shouldSkipStatement(database *gorm.DB, statement string) (bool, error) {
	match := addColumnPattern.FindStringSubmatch(strings.TrimSpace(statement))
	if match == nil {
		return false, nil
	}

	table, column := unquoteIdentifier(match[1]), unquoteIdentifier(match[2])
	migrator := database.Migrator()
	if !migrator.HasTable(table) {
		return false, fmt.Errorf("table %s does not exist", table)
	}
	return migrator.HasColumn(table, column), nil
}

func unquoteIdentifier(identifier string) string {
	return strings.Trim(strings.TrimSpace(identifier), "\"`[]")
}
