package backend

import (
	"context"

	"gioui.org/app"
	"git.sr.ht/~gioverse/skel/stream"
)

// WindowState couples the shared backend bundle with the stream
// controller of one window.
type WindowState struct {
	Bundle
	Controller *stream.Controller
}

func NewWindowState(ctx context.Context, bundle Bundle, win *app.Window) WindowState {
	return WindowState{
		Bundle:     bundle,
		Controller: stream.NewController(ctx, win.Invalidate),
	}
}

// Bundle aggregates the application-scoped backend services.
type Bundle struct {
	Source *Source
}

func NewBundle(ctx context.Context, mutator *stream.Mutator) (Bundle, error) {
	source, err := NewSource(ctx, mutator)
	if err != nil {
		return Bundle{}, err
	}
	return Bundle{Source: source}, nil
}
