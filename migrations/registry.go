package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	persistence "github.com/goliatone/go-persistence-bun"
	wearables "github.com/goliatone/go-wearables"
)

// SourceLabel names the wearables migrations in dialect validation reports.
const SourceLabel = "go-wearables"

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// Registrar is the slice of *persistence.Client used to install the
// wearables schema.
type Registrar interface {
	RegisterDialectMigrations(root fs.FS, opts ...persistence.DialectMigrationOption) *persistence.Migrations
	ValidateDialects(ctx context.Context) error
}

type FilesystemSpec struct {
	Dialect string
	FS      fs.FS
}

// Root returns the migration tree. Postgres files sit at the top level and
// sqlite replacements with the same names live under sqlite/.
func Root() (fs.FS, error) {
	root, err := fs.Sub(wearables.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return nil, fmt.Errorf("migrations: resolve migration root: %w", err)
	}
	return root, nil
}

// Filesystems returns the per-dialect views of the tree. Every up migration
// must ship with its down migration.
func Filesystems() ([]FilesystemSpec, error) {
	root, err := Root()
	if err != nil {
		return nil, err
	}
	sqliteFS, err := fs.Sub(root, DialectSQLite)
	if err != nil {
		return nil, fmt.Errorf("migrations: resolve sqlite migrations: %w", err)
	}
	specs := []FilesystemSpec{
		{Dialect: DialectPostgres, FS: root},
		{Dialect: DialectSQLite, FS: sqliteFS},
	}
	for _, spec := range specs {
		if err := checkMigrationPairs(spec); err != nil {
			return nil, err
		}
	}
	return specs, nil
}

// Register adds the wearables tree to client as one dialect-aware source,
// then validates that postgres and sqlite both resolve to SQL. Extra
// options are applied after the defaults.
func Register(ctx context.Context, client Registrar, opts ...persistence.DialectMigrationOption) error {
	if client == nil {
		return fmt.Errorf("migrations: persistence client is required")
	}
	if _, err := Filesystems(); err != nil {
		return err
	}
	root, err := Root()
	if err != nil {
		return err
	}

	options := append([]persistence.DialectMigrationOption{
		persistence.WithDialectSourceLabel(SourceLabel),
		persistence.WithValidationTargets(DialectPostgres, DialectSQLite),
		persistence.WithDialectValidator(missingDialectsError),
	}, opts...)
	client.RegisterDialectMigrations(root, options...)

	if err := client.ValidateDialects(ctx); err != nil {
		return fmt.Errorf("migrations: validate %s: %w", SourceLabel, err)
	}
	return nil
}

func checkMigrationPairs(spec FilesystemSpec) error {
	ups, err := fs.Glob(spec.FS, "*.up.sql")
	if err != nil {
		return fmt.Errorf("migrations: glob %s: %w", spec.Dialect, err)
	}
	if len(ups) == 0 {
		return fmt.Errorf("migrations: %s has no *.up.sql files", spec.Dialect)
	}
	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		if _, err := fs.Stat(spec.FS, down); err != nil {
			return fmt.Errorf("migrations: %s migration %s has no down file: %w", spec.Dialect, up, err)
		}
	}
	return nil
}

// missingDialectsError replaces the library's panicking validator.
func missingDialectsError(_ context.Context, result persistence.DialectValidationResult) error {
	dialects := make([]string, 0, len(result.MissingDialects))
	for dialect := range result.MissingDialects {
		dialects = append(dialects, dialect)
	}
	sort.Strings(dialects)

	parts := make([]string, 0, len(dialects))
	for _, dialect := range dialects {
		parts = append(parts, fmt.Sprintf("%s (%s)", dialect, strings.Join(result.MissingDialects[dialect], "; ")))
	}
	return fmt.Errorf("%s is missing migrations for %s", result.SourceLabel, strings.Join(parts, ", "))
}
