package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/battingstats/internal/storage"
	"github.com/mcoot/battingstats/internal/storage/storagetest"
)

// dsnEnv names a disposable database; its tables are truncated per test
const dsnEnv = "BSTATS_TEST_POSTGRES_DSN"

func TestStorageSuite(t *testing.T) {
	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		t.Skipf("%s not set", dsnEnv)
	}

	suite.Run(t, &storagetest.Suite{
		NewStorage: func(t *testing.T) storage.Storage {
			cfg := DefaultConfig()
			cfg.DSN = dsn

			s, err := New(context.Background(), cfg)
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })

			_, err = s.db.Exec(`TRUNCATE accounts, player_records RESTART IDENTITY`)
			require.NoError(t, err)
			return s
		},
	})
}
