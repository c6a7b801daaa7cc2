package app

import (
	"os"
	"sync"
	"sync/atomic"
)

const testModeEnv = "EAZEINN_TEST_MODE"

var (
	testMode     atomic.Bool
	testModeOnce sync.Once
)

// InTestMode reports whether the process should skip runtime side effects
// such as binding the listen socket. The flag is read once.
func InTestMode() bool {
	testModeOnce.Do(func() {
		testMode.Store(os.Getenv(testModeEnv) == "1")
	})
	return testMode.Load()
}

// RefreshTestMode re-reads the flag after environment changes.
func RefreshTestMode() {
	testMode.Store(os.Getenv(testModeEnv) == "1")
}
