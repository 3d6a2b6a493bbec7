package appointment

import (
	"testing"

	"github.com/BruksfildServices01/barbershop-engine/internal/audit"
	"github.com/BruksfildServices01/barbershop-engine/internal/testfixtures"
)

type env struct {
	store    *testfixtures.Store
	clock    *testfixtures.Clock
	recorder *testfixtures.AuditRecorder
	audit    *audit.Dispatcher
}

func newEnv(t *testing.T) *env {
	t.Helper()

	store := testfixtures.NewStore()
	testfixtures.Seed(store)

	rec := &testfixtures.AuditRecorder{}
	d := audit.NewDispatcher(rec)
	t.Cleanup(d.Close)

	return &env{
		store:    store,
		clock:    testfixtures.NewClock(testfixtures.ReferenceTime()),
		recorder: rec,
		audit:    d,
	}
}

// actions flushes the dispatcher and returns the recorded audit actions.
func (e *env) actions() []string {
	e.audit.Close()
	return e.recorder.Actions()
}

func ptr[T any](v T) *T { return &v }
