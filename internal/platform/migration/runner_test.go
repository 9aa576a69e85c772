// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration_test

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/techhub/internal/platform/migration"
)

func TestToPgx5DSN(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/techhub", migration.ToPgx5DSN("postgres://u:p@db:5432/techhub"))
	assert.Equal(t, "pgx5://u:p@db/techhub", migration.ToPgx5DSN("postgresql://u:p@db/techhub"))
	assert.Equal(t, "pgx5://db/techhub", migration.ToPgx5DSN("pgx5://db/techhub"))
	assert.Equal(t, "host=db dbname=techhub", migration.ToPgx5DSN("host=db dbname=techhub"))
}

/*
TestEmbeddedSource checks the compiled-in set starts at the initial schema and pairs every up with a down.
*/
func TestEmbeddedSource(t *testing.T) {
	driver, err := migration.EmbeddedSource()
	require.NoError(t, err)
	defer driver.Close()

	version, err := driver.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	for {
		up, _, err := driver.ReadUp(version)
		require.NoError(t, err)
		require.NoError(t, up.Close())

		down, _, err := driver.ReadDown(version)
		require.NoError(t, err)
		require.NoError(t, down.Close())

		next, err := driver.Next(version)
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		require.NoError(t, err)
		version = next
	}
}
