package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/battingstats/internal/storage"
	"github.com/mcoot/battingstats/internal/storage/storagetest"
)

func TestStorageSuite(t *testing.T) {
	suite.Run(t, &storagetest.Suite{
		NewStorage: func(t *testing.T) storage.Storage { return New() },
	})
}

func TestListedRecordsAreCopies(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.InsertPlayer(ctx, storagetest.Record("acct-1", "p1", "Ortiz", 0)))

	records, err := s.ListPlayers(ctx, "acct-1")
	require.NoError(t, err)
	records[0].Name = "mutated"

	records, err = s.ListPlayers(ctx, "acct-1")
	require.NoError(t, err)
	assert.Equal(t, "Ortiz", records[0].Name)
}
