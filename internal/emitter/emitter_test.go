package emitter

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/datasync/keymarker/internal/log"
	"github.com/datasync/keymarker/internal/pubsub"
)

var t0 = time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC)

type sink struct {
	got []string
}

func (s *sink) Emit(marker string, _ time.Time) { s.got = append(s.got, marker) }

func TestMulti_FansOutInOrder(t *testing.T) {
	var order []string
	a := Func(func(m string, _ time.Time) { order = append(order, "a:"+m) })
	b := Func(func(m string, _ time.Time) { order = append(order, "b:"+m) })

	Multi{a, nil, b}.Emit("Books", t0)

	require.Equal(t, []string{"a:Books", "b:Books"}, order)
}

func TestFeed_Publishes(t *testing.T) {
	broker := pubsub.NewBroker[Marker]()
	defer broker.Close()
	ch := broker.Subscribe(context.Background())

	NewFeed(broker).Emit("ClassStarted", t0)

	event := <-ch
	require.Equal(t, pubsub.EmittedEvent, event.Type)
	require.Equal(t, Marker{Name: "ClassStarted", At: t0}, event.Payload)
	require.Equal(t, t0, event.Timestamp)
}

func TestLogged_Forwards(t *testing.T) {
	var logs bytes.Buffer
	log.InitWriter(&logs)
	t.Cleanup(log.Reset)

	s := &sink{}
	WithLogging(s).Emit("Dancing", t0)

	require.Equal(t, []string{"Dancing"}, s.got)
	require.Contains(t, logs.String(), "[emit] Emitting marker marker=Dancing")
}
