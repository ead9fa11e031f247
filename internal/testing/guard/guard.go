// Package guard forces test mode for any package importing it, keeping
// runtime side effects out of the test binary.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("GESTOR_TEST_MODE") == "" {
			_ = os.Setenv("GESTOR_TEST_MODE", "1")
		}
	})
}
