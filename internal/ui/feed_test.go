package ui

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cheatcode/internal/source"
)

func TestKeyFeedDispatchesInRegistrationOrder(t *testing.T) {
	feed := NewKeyFeed()
	var got []string

	unsubA, err := feed.OnKeyDown(func(e source.KeyEvent) { got = append(got, "a:"+e.Key) })
	require.NoError(t, err)
	unsubB, err := feed.OnKeyDown(func(e source.KeyEvent) { got = append(got, "b:"+e.Key) })
	require.NoError(t, err)

	feed.Dispatch("ArrowUp")
	require.Equal(t, []string{"a:ArrowUp", "b:ArrowUp"}, got)

	unsubA()
	feed.Dispatch("Enter")
	require.Equal(t, []string{"a:ArrowUp", "b:ArrowUp", "b:Enter"}, got)

	unsubB()
	feed.Dispatch("Escape")
	require.Len(t, got, 3, "no handlers are left to receive keys")
}

func TestKeyFeedHandlerMayUnsubscribe(t *testing.T) {
	feed := NewKeyFeed()
	var unsub func()
	calls := 0
	unsub, err := feed.OnKeyDown(func(source.KeyEvent) {
		calls++
		unsub()
	})
	require.NoError(t, err)

	feed.Dispatch("a")
	feed.Dispatch("a")
	require.Equal(t, 1, calls)
}
