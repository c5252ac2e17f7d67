package blog

import "embed"

// migrationsFS holds the goose migrations applied by NewStore.
//
//go:embed migrations/*.sql
var migrationsFS embed.FS
