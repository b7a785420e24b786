//go:build !tinygo && !cgo

package hal

import (
	"context"
	"errors"
)

type WindowConfig struct {
	Scale       int
	ConsoleRows int
}

func RunWindow(_ context.Context, _ *Host, _ WindowConfig, _ func(ctx context.Context) error) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
