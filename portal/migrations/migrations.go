package migrations

import (
	"embed"
	"io/fs"
)

var (
	//go:embed postgres/*.sql
	postgresFiles embed.FS
	//go:embed sqlite/*.sql
	sqliteFiles embed.FS
)

var (
	Postgres = mustSub(postgresFiles, "postgres")
	SQLite   = mustSub(sqliteFiles, "sqlite")
)

func mustSub(fsys embed.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
