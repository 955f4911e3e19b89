package navi

import (
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"

	"github.com/lestrrat-go/trie/v2"
)

type impl = trie.Trie[string, string, *RouteState]

// pathtrie indexes compiled route states by their absolute path.
type pathtrie struct {
	*impl
}

func newPathtrie() *pathtrie {
	return &pathtrie{
		impl: trie.New[string, string, *RouteState](pathTokenizer{}),
	}
}

// build indexes states shallowest first. Put never stores a value on a
// node that already exists, so a path must be added before any longer
// path running through it. The sort is stable so that the first
// declaration of a duplicate path wins.
func (t *pathtrie) build(states []*RouteState) error {
	states = slices.Clone(states)
	slices.SortStableFunc(states, func(a, b *RouteState) int {
		return len(a.PathStack) - len(b.PathStack)
	})
	for _, state := range states {
		if err := t.add(state); err != nil {
			return err
		}
	}
	return nil
}

func (t *pathtrie) add(state *RouteState) error {
	if _, ok := t.lookup(state.Path); ok {
		return nil
	}
	if err := t.Put(state.Path, state); err != nil {
		return fmt.Errorf("failed to index route %q: %w", state.Path, err)
	}
	if _, ok := t.lookup(state.Path); !ok {
		return fmt.Errorf("failed to index route %q", state.Path)
	}
	return nil
}

func (t *pathtrie) lookup(path string) (*RouteState, bool) {
	state, ok := t.Get(path)
	if !ok || state == nil || state.Path != path {
		return nil, false
	}
	return state, true
}

// pathTokenizer splits on '/' and prefixes every label with its depth.
// Put compares each remaining label against the children of the node it
// is at, so without the depth "/b/a" could descend into an existing
// "/a".
type pathTokenizer struct{}

func (pathTokenizer) Tokenize(s string) (iter.Seq[string], error) {
	comps := strings.Split(s, "/")
	return func(yield func(string) bool) {
		for i, c := range comps {
			if !yield(strconv.Itoa(i) + ":" + c) {
				break
			}
		}
	}, nil
}
