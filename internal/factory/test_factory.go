package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/battingstats/internal/dependencies/mocks"
	"github.com/mcoot/battingstats/internal/metrics"
	"github.com/mcoot/battingstats/internal/services/auth"
	"github.com/mcoot/battingstats/internal/services/players"
	"github.com/mcoot/battingstats/internal/services/session"
	"github.com/mcoot/battingstats/internal/storage/memory"
	"github.com/mcoot/battingstats/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// TestOption adjusts the services built by NewTestApp
type TestOption func(*testOptions)

type testOptions struct {
	authCfg    auth.Config
	playersCfg players.Config
}

// WithAutoRegister sets the auth policy's AutoRegister flag
func WithAutoRegister(enabled bool) TestOption {
	return func(o *testOptions) {
		o.authCfg.Policy.AutoRegister = enabled
	}
}

// WithMissingRecordPolicy sets the player service's missing-record policy
func WithMissingRecordPolicy(p players.MissingRecordPolicy) TestOption {
	return func(o *testOptions) {
		o.playersCfg.MissingRecordPolicy = p
	}
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Passwords are hashed at bcrypt.MinCost.
func NewTestApp(opts ...TestOption) *TestApp {
	o := testOptions{
		authCfg:    auth.Config{Policy: auth.DefaultPolicy(), BcryptCost: bcrypt.MinCost},
		playersCfg: players.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	sessions := session.NewMemoryStore(mockClock, mockRandom, session.DefaultTTL)

	app := &App{}
	app.wire(store, sessions, mockClock, mockRandom, o.authCfg, o.playersCfg, metrics.NewManager(), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
