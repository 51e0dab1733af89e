package testsupport

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formsession/pkg/schema"
	"github.com/goliatone/go-formsession/pkg/session"
)

// Registry returns the bundled reference registry (userInfo, addressInfo,
// paymentInfo), failing the test when it cannot be loaded.
func Registry(t testing.TB) *schema.Registry {
	t.Helper()

	reg, err := schema.DefaultRegistry()
	if err != nil {
		t.Fatalf("load default registry: %v", err)
	}
	return reg
}

// Engine constructs an engine over the reference registry with a fixed clock
// and sequential entry IDs so snapshots are deterministic.
func Engine(t testing.TB, options ...session.Option) *session.Engine {
	t.Helper()

	base := []session.Option{
		session.WithClock(FixedClock),
		session.WithIDGenerator(SequentialIDs("entry")),
	}
	eng, err := session.New(Registry(t), append(base, options...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return eng
}

// Fill sets every value on eng, failing the test on the first error.
func Fill(t testing.TB, eng *session.Engine, values map[string]string, order ...string) {
	t.Helper()

	if len(order) == 0 {
		for name := range values {
			order = append(order, name)
		}
	}
	for _, name := range order {
		if _, err := eng.SetFieldValue(name, values[name]); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}
}

// FixedClock returns a constant timestamp used for ledger entries in tests.
func FixedClock() time.Time {
	return time.Date(2024, time.March, 14, 9, 30, 0, 0, time.UTC)
}

// SequentialIDs yields prefix-1, prefix-2, ... on successive calls.
func SequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// AssertSnapshot fails the test when got differs from want.
func AssertSnapshot(t testing.TB, want, got session.Snapshot) {
	t.Helper()

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
