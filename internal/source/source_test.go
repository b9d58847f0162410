package source

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	require.Equal(t, TypeGamepad, ParseType("gamepad"))
	require.Equal(t, TypeGamepad, ParseType(" GamePad "))
	require.Equal(t, TypeKeyboard, ParseType("keyboard"))
	require.Equal(t, TypeKeyboard, ParseType("joystick"))
	require.Equal(t, TypeKeyboard, ParseType(""))
}

func TestKeyboardEmitsOneSymbolPerKeyDown(t *testing.T) {
	env := newFakeKeys()
	kb := NewKeyboard(env)
	rec := &recorder{}

	require.NoError(t, kb.Subscribe(rec.emit))
	env.press("ArrowUp")
	env.press("")
	env.press("a")
	env.press("a")

	require.Equal(t, []string{"ArrowUp", "a", "a"}, rec.got())
}

func TestKeyboardUnsubscribe(t *testing.T) {
	env := newFakeKeys()
	kb := NewKeyboard(env)
	rec := &recorder{}

	require.NoError(t, kb.Subscribe(rec.emit))
	require.ErrorIs(t, kb.Subscribe(rec.emit), ErrAlreadySubscribed)

	kb.Unsubscribe()
	kb.Unsubscribe()
	require.Zero(t, env.count())

	env.press("a")
	require.Empty(t, rec.got())

	require.NoError(t, kb.Subscribe(rec.emit), "resubscribe after unsubscribe")
	env.press("b")
	require.Equal(t, []string{"b"}, rec.got())
}

func TestKeyboardCapabilityErrors(t *testing.T) {
	err := NewKeyboard(nil).Subscribe((&recorder{}).emit)
	require.ErrorIs(t, err, ErrUnsupported)

	env := newFakeKeys()
	env.err = errors.New("no document")
	kb := NewKeyboard(env)
	require.ErrorIs(t, kb.Subscribe((&recorder{}).emit), ErrUnsupported)

	env.err = nil
	require.NoError(t, kb.Subscribe((&recorder{}).emit), "failed subscribe leaves the adapter idle")
	kb.Unsubscribe()
}

func newTestGamepad(env *fakePads) (*Gamepad, *recorder, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClock()
	g := NewGamepad(env, WithClock(clock), WithPollInterval(time.Millisecond))
	return g, &recorder{}, clock
}

func TestGamepadEdgeTriggering(t *testing.T) {
	env := newFakePads()
	g, rec, _ := newTestGamepad(env)
	require.NoError(t, g.Subscribe(rec.emit))
	defer g.Unsubscribe()

	env.plug(0, 8)

	env.set(0, 7, true)
	require.True(t, g.Sample())
	require.True(t, g.Sample(), "held across passes")
	require.True(t, g.Sample())
	require.Equal(t, []string{"7"}, rec.got())

	env.set(0, 7, false)
	require.True(t, g.Sample())
	env.set(0, 7, true)
	require.True(t, g.Sample())
	require.Equal(t, []string{"7", "7"}, rec.got())
}

func TestGamepadSameTickButtonsInIndexOrder(t *testing.T) {
	env := newFakePads()
	g, rec, _ := newTestGamepad(env)
	require.NoError(t, g.Subscribe(rec.emit))
	defer g.Unsubscribe()

	env.plug(1, 8)
	env.plug(0, 8)
	env.set(1, 2, true)
	env.set(0, 6, true)
	env.set(0, 3, true)

	require.True(t, g.Sample())
	require.Equal(t, []string{"3", "6", "2"}, rec.got())
}

func TestGamepadDisconnectDropsEdgeState(t *testing.T) {
	env := newFakePads()
	g, rec, _ := newTestGamepad(env)
	require.NoError(t, g.Subscribe(rec.emit))
	defer g.Unsubscribe()

	env.plug(0, 4)
	env.set(0, 1, true)
	require.True(t, g.Sample())

	env.unplug(0)
	require.Empty(t, g.Connected())
	require.False(t, g.Sample(), "no pads left")
	require.False(t, g.Polling())

	// A different pad at the same index with the button already down
	env.plug(0, 4)
	env.set(0, 1, true)
	require.True(t, g.Polling())
	require.True(t, g.Sample())
	require.Equal(t, []string{"1", "1"}, rec.got())
}

func TestGamepadAdoptsAlreadyConnectedPads(t *testing.T) {
	env := newFakePads()
	env.plug(2, 4)
	env.set(2, 0, true)

	g, rec, _ := newTestGamepad(env)
	require.NoError(t, g.Subscribe(rec.emit))
	defer g.Unsubscribe()

	require.Equal(t, []int{2}, g.Connected())
	require.True(t, g.Polling())
	require.True(t, g.Sample())
	require.Equal(t, []string{"0"}, rec.got())
}

func TestGamepadPollLoopRunsOnlyWhileConnected(t *testing.T) {
	env := newFakePads()
	g := NewGamepad(env, WithPollInterval(time.Millisecond))
	rec := &recorder{}
	require.NoError(t, g.Subscribe(rec.emit))
	defer g.Unsubscribe()

	require.False(t, g.Polling(), "nothing scheduled without pads")

	env.plug(0, 4)
	require.True(t, g.Polling())
	env.set(0, 3, true)
	require.Eventually(t, func() bool { return len(rec.got()) == 1 }, time.Second, time.Millisecond)

	env.unplug(0)
	require.Eventually(t, func() bool { return !g.Polling() }, time.Second, time.Millisecond)

	env.plug(0, 4)
	env.set(0, 2, true)
	require.True(t, g.Polling(), "reconnection restarts the schedule")
	require.Eventually(t, func() bool { return len(rec.got()) == 2 }, time.Second, time.Millisecond)
	require.Equal(t, []string{"3", "2"}, rec.got())
}

func TestGamepadUnsubscribeStopsEmission(t *testing.T) {
	env := newFakePads()
	g, rec, _ := newTestGamepad(env)
	require.NoError(t, g.Subscribe(rec.emit))

	env.plug(0, 4)
	g.Unsubscribe()
	g.Unsubscribe()
	require.Equal(t, 1, env.unwatched)
	require.False(t, g.Polling())

	env.set(0, 0, true)
	require.False(t, g.Sample())
	require.Empty(t, rec.got())
}

func TestGamepadCapabilityErrors(t *testing.T) {
	require.ErrorIs(t, NewGamepad(nil).Subscribe((&recorder{}).emit), ErrUnsupported)

	env := newFakePads()
	env.watchErr = errNoGamepadAPI
	g := NewGamepad(env)
	require.ErrorIs(t, g.Subscribe((&recorder{}).emit), ErrUnsupported)
	require.False(t, g.Polling())

	env.watchErr = nil
	require.NoError(t, g.Subscribe((&recorder{}).emit), "failed subscribe leaves the adapter idle")
	g.Unsubscribe()
}
