package wizard

import (
	"testing"

	"go.uber.org/goleak"
)

// The engine never starts goroutines; any leak here is a regression.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
