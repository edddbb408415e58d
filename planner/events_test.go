package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventDeliversInSubscriptionOrder(t *testing.T) {
	var ev Event[int]
	var got []string
	ev.Subscribe(func(v int) { got = append(got, "a") })
	ev.Subscribe(func(v int) { got = append(got, "b") })
	ev.Subscribe(func(v int) { got = append(got, "c") })

	ev.Emit(1)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestEventUnsubscribe(t *testing.T) {
	var ev Event[string]
	calls := 0
	sub := ev.Subscribe(func(string) { calls++ })
	ev.Emit("x")
	sub.Unsubscribe()
	sub.Unsubscribe()
	ev.Emit("y")

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, ev.Len())
}

func TestEventSubscribeDuringEmit(t *testing.T) {
	var ev Signal
	late := 0
	ev.Subscribe(func(struct{}) {
		ev.Subscribe(func(struct{}) { late++ })
	})

	Fire(&ev)
	assert.Equal(t, 0, late, "handlers added during an emit run from the next one")
	Fire(&ev)
	assert.Equal(t, 1, late)
}

func TestSubscriptionsClose(t *testing.T) {
	var a Event[int]
	var b Signal
	var subs subscriptions
	subs.add(a.Subscribe(func(int) {}))
	subs.add(b.Subscribe(func(struct{}) {}))

	subs.close()
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 0, b.Len())
	assert.Empty(t, subs)
}
