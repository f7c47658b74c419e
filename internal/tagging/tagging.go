// Package tagging defines the remote tagging service a favorite toggle talks
// to, and the failure it reports when a call does not succeed.
package tagging

import (
	"context"
	"errors"
	"fmt"
)

// ErrRemoteCall is matched by every RemoteCallError.
var ErrRemoteCall = errors.New("remote tagging call failed")

// Op names a tagging operation.
type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
)

// Service adds and removes tags on results.
// Any non-nil error is a failure; callers do not distinguish causes.
type Service interface {
	AddTag(ctx context.Context, resultID uint, tagName string) error
	RemoveTag(ctx context.Context, resultID uint, tagName string) error
}

// RemoteCallError reports a failed add or remove call.
type RemoteCallError struct {
	Op       Op
	ResultID uint
	TagName  string
	Err      error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("%s tag %q on result %d: %v", e.Op, e.TagName, e.ResultID, e.Err)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrRemoteCall) hold for any RemoteCallError.
func (e *RemoteCallError) Is(target error) bool {
	return target == ErrRemoteCall
}

// Call runs the add or remove operation against svc and wraps any failure,
// including a panic raised by the transport, in a RemoteCallError.
func Call(ctx context.Context, svc Service, op Op, resultID uint, tagName string) (err error) {
	wrap := func(cause error) error {
		return &RemoteCallError{Op: op, ResultID: resultID, TagName: tagName, Err: cause}
	}

	defer func() {
		if r := recover(); r != nil {
			err = wrap(fmt.Errorf("panic: %v", r))
		}
	}()

	if svc == nil {
		return wrap(errors.New("no tagging service configured"))
	}

	switch op {
	case OpAdd:
		err = svc.AddTag(ctx, resultID, tagName)
	case OpRemove:
		err = svc.RemoveTag(ctx, resultID, tagName)
	default:
		err = fmt.Errorf("unknown operation %q", op)
	}
	if err != nil {
		return wrap(err)
	}
	return nil
}
