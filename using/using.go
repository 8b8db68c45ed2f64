// Package using provides scoped acquisition of resources, similar to C#'s
// "using" statement or Java's try-with-resources. The resource is released
// on every exit path of the scope: normal return, error, or panic.
//
// Example usage:
//
//	err := using.Timeout(30*time.Second).Use(func(t *timeout.Timeout) error {
//	    ctx := t.MustSignal()
//
//	    return syncEverything(ctx, t)
//	})
//	// The timeout is closed here, whatever happened inside.
package using

import (
	"errors"
)

var (
	// ErrResourceNil is returned when Use is called on a nil resource.
	ErrResourceNil = errors.New("resource is nil")
	// ErrFuncNil is returned when a nil function is passed to Use.
	ErrFuncNil = errors.New("f is nil")
)

// Closer releases a resource. It has the signature of io.Closer.Close.
type Closer func() error

// Resource produces a value together with the Closer which releases it.
type Resource[V any] struct {
	create   func() (V, Closer, error)
	released bool
}

// NewResource creates a Resource from a function that returns a value, its
// closer, and an error. Nothing is created until Use is called.
func NewResource[V any](f func() (V, Closer, error)) *Resource[V] {
	return &Resource[V]{
		create: f,
	}
}

// Use creates the value, passes it to userFunc and then closes it. If both
// userFunc and the closer fail, the errors are joined. If userFunc panics,
// the value is still closed before the panic continues up the stack.
func (p *Resource[V]) Use(userFunc func(value V) error) error {
	if p == nil {
		return ErrResourceNil
	}

	if userFunc == nil {
		return ErrFuncNil
	}

	p.released = false

	val, closer, err := p.create()
	if err != nil {
		if closer != nil {
			err = errors.Join(err, closer())
		}

		return err
	}

	return p.run(val, closer, userFunc)
}

func (p *Resource[V]) run(val V, closer Closer, userFunc func(value V) error) (errOut error) {
	defer func() {
		if p.released || closer == nil {
			return
		}

		if err := closer(); err != nil {
			errOut = errors.Join(errOut, err)
		}
	}()

	return userFunc(val)
}

// Release hands ownership of the value to the caller: the closer will not
// be invoked when the current Use returns. Call it from inside userFunc.
func (p *Resource[V]) Release() {
	p.released = true
}
