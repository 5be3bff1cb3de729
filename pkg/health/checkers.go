package health

import (
	"context"
	"runtime"

	"github.com/go-faster/errors"
)

// GoroutineCountCheck flags a likely goroutine leak once the count passes
// threshold.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(_ context.Context) error {
		if n := runtime.NumGoroutine(); n > threshold {
			return errors.Errorf("goroutine count %d exceeds threshold %d", n, threshold)
		}
		return nil
	}
}

// CheckerFunc adapts a plain probe func, such as a store writability check,
// into a CheckFunc.
func CheckerFunc(fn func() error) CheckFunc {
	return func(_ context.Context) error {
		return fn()
	}
}
