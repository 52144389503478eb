// Package testing puts the console into test mode for every test binary that
// imports it for side effects.
package testing

import "os"

func init() {
	if os.Getenv("INVENTARIO_TEST_MODE") == "" {
		_ = os.Setenv("INVENTARIO_TEST_MODE", "1")
	}
}
