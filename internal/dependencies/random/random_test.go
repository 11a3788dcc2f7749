package random

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDIsUUID(t *testing.T) {
	r := New()

	id := r.ID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, r.ID())
}

func TestTokenHasPrefixAndIsUnique(t *testing.T) {
	r := New()

	a, err := r.Token("sess_")
	require.NoError(t, err)
	b, err := r.Token("sess_")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a, "sess_"))
	assert.Len(t, a, len("sess_")+43)
	assert.NotEqual(t, a, b)
}
