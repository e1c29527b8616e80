package testsupport

import (
	"testing"

	"github.com/phatcz/TiktokClipGenerator/internal/config"
	"github.com/phatcz/TiktokClipGenerator/internal/runstore"
)

// MustOpenStore opens a run store against the test config and closes it when
// the test finishes.
func MustOpenStore(t testing.TB, cfg *config.Config) *runstore.Store {
	t.Helper()

	store, err := runstore.Open(cfg)
	if err != nil {
		t.Fatalf("open run store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close run store: %v", err)
		}
	})
	return store
}
