package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/battingstats/internal/storage"
	"github.com/mcoot/battingstats/internal/storage/storagetest"
)

const uriEnv = "BSTATS_TEST_MONGO_URI"

func TestStorageSuite(t *testing.T) {
	uri := os.Getenv(uriEnv)
	if uri == "" {
		t.Skipf("%s not set", uriEnv)
	}

	n := 0
	suite.Run(t, &storagetest.Suite{
		NewStorage: func(t *testing.T) storage.Storage {
			n++
			cfg := Config{
				URI:      uri,
				Database: fmt.Sprintf("bstats_test_%d_%d", time.Now().UnixNano(), n),
			}

			ctx := context.Background()
			s, err := New(ctx, cfg)
			require.NoError(t, err)
			t.Cleanup(func() {
				_ = s.client.Database(cfg.Database).Drop(ctx)
				_ = s.Close()
			})
			return s
		},
	})
}
