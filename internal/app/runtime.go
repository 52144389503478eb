package app

import (
	"os"
	"sync/atomic"
)

const testModeEnv = "INVENTARIO_TEST_MODE"

// testMode caches INVENTARIO_TEST_MODE: 0 unread, 1 off, 2 on.
var testMode atomic.Int32

// InTestMode reports whether the console runs under tests. Request logs are
// silenced and the serve command returns before listening.
func InTestMode() bool {
	if testMode.Load() == 0 {
		RefreshTestMode()
	}
	return testMode.Load() == 2
}

// RefreshTestMode re-reads the environment.
func RefreshTestMode() {
	if os.Getenv(testModeEnv) == "1" {
		testMode.Store(2)
		return
	}
	testMode.Store(1)
}
