package navi

import (
	"context"
	"fmt"
)

// Guard decides whether a navigation may proceed. A guard instance is
// shared by every navigation to its route, possibly concurrently.
//
// CanActivate may block; ctx is canceled as soon as the navigation is
// superseded, after which whatever the guard returns is ignored.
// Returning false denies the navigation, returning an error fails it.
type Guard interface {
	CanActivate(ctx context.Context, data NavigateData) (bool, error)
}

type GuardFunc func(context.Context, NavigateData) (bool, error)

func (f GuardFunc) CanActivate(ctx context.Context, data NavigateData) (bool, error) {
	return f(ctx, data)
}

// Verdict is a guard result delivered asynchronously.
type Verdict struct {
	Allow bool
	Err   error
}

// AsyncGuardFunc starts a check and returns a channel that delivers its
// result.
type AsyncGuardFunc func(context.Context, NavigateData) <-chan Verdict

// Async adapts a channel based check into a Guard. Only the first value
// received counts; a channel closed without a value denies the
// navigation.
func Async(fn AsyncGuardFunc) Guard {
	return GuardFunc(func(ctx context.Context, data NavigateData) (bool, error) {
		ch := fn(ctx, data)
		if ch == nil {
			return true, nil
		}
		select {
		case v, ok := <-ch:
			if !ok {
				return false, nil
			}
			return v.Allow, v.Err
		case <-ctx.Done():
			return false, ctx.Err()
		}
	})
}

// Allow is a guard that lets every navigation through.
var Allow Guard = GuardFunc(func(context.Context, NavigateData) (bool, error) {
	return true, nil
})

// Deny is a guard that blocks every navigation.
var Deny Guard = GuardFunc(func(context.Context, NavigateData) (bool, error) {
	return false, nil
})

// runGuards evaluates guards in order and stops at the first one that
// denies or fails. Once ctx is done the chain reports a plain denial:
// the caller discards results of superseded navigations anyway.
func runGuards(ctx context.Context, guards []Guard, data NavigateData) (bool, error) {
	for _, guard := range guards {
		if ctx.Err() != nil {
			return false, nil
		}
		ok, err := activate(ctx, guard, data)
		if ctx.Err() != nil {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func activate(ctx context.Context, guard Guard, data NavigateData) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			err = fmt.Errorf("%w: %v", ErrGuardPanic, r)
		}
	}()
	return guard.CanActivate(ctx, data)
}
