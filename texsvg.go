package texsvg

import (
	"sync"

	"github.com/wippyai/texsvg/bundle"
	"github.com/wippyai/texsvg/runtime"
)

// Renderer is satisfied by *runtime.Renderer and by the shared facade.
// Implementations are not required to be safe for concurrent use.
type Renderer interface {
	Render(tex string, mode runtime.Mode) (string, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(tex string, mode runtime.Mode) (string, error)

// Render calls f.
func (f RendererFunc) Render(tex string, mode runtime.Mode) (string, error) {
	return f(tex, mode)
}

// Default is the shared facade as a Renderer. It is safe for concurrent use.
var Default Renderer = RendererFunc(RenderMode)

var (
	sharedOnce sync.Once
	sharedMu   sync.Mutex
	shared     *runtime.Renderer
	sharedErr  error
)

// newShared builds the process-wide renderer from bundle.Default with the
// default ceilings.
var newShared = func() (*runtime.Renderer, error) {
	src, err := bundle.Default()
	if err != nil {
		return nil, err
	}
	return runtime.New(src)
}

// Shared returns the process-wide renderer, constructing it on first use.
// A construction failure is returned on this and every later call; it is
// never retried. Callers using the returned Renderer directly must not use
// it concurrently with Render or RenderInline.
func Shared() (*runtime.Renderer, error) {
	sharedOnce.Do(func() {
		shared, sharedErr = newShared()
	})
	return shared, sharedErr
}

// Render typesets tex in display mode with the shared renderer.
func Render(tex string) (string, error) {
	return RenderMode(tex, runtime.Display)
}

// RenderInline typesets tex in inline mode with the shared renderer.
func RenderInline(tex string) (string, error) {
	return RenderMode(tex, runtime.Inline)
}

// RenderMode typesets tex in the given mode with the shared renderer.
// Calls are serialized.
func RenderMode(tex string, mode runtime.Mode) (string, error) {
	r, err := Shared()
	if err != nil {
		return "", err
	}
	sharedMu.Lock()
	defer sharedMu.Unlock()
	return r.Render(tex, mode)
}
