package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"card10/epic"
)

type message struct {
	topic   string
	payload string
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []message
	err  error
	sent chan struct{}
}

func (f *fakePublisher) Publish(topic string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, message{topic, string(payload)})
	if f.sent != nil {
		f.sent <- struct{}{}
	}
	return nil
}

func TestTopic(t *testing.T) {
	tests := []struct {
		prefix, device string
		kind           epic.SensorType
		want           string
	}{
		{"card10", "sim-1", epic.Accelerometer, "card10/sim-1/bhi160/accelerometer"},
		{"/lab/card10/", "x", epic.Gyroscope, "lab/card10/x/bhi160/gyroscope"},
		{"", "", epic.Orientation, "bhi160/orientation"},
	}
	for _, tt := range tests {
		if got := Topic(tt.prefix, tt.device, tt.kind); got != tt.want {
			t.Fatalf("Topic(%q, %q, %s) = %q, want %q", tt.prefix, tt.device, tt.kind, got, tt.want)
		}
	}
}

func TestEncode(t *testing.T) {
	body, err := Encode(Batch{
		Sensor:  "accelerometer",
		Time:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Samples: []Sample{{X: -2, Y: 4660, Z: 300, Status: 3}},
		kind:    epic.Accelerometer,
	})
	require.NoError(t, err)
	require.JSONEq(t, `{
		"sensor": "accelerometer",
		"time": "2024-01-02T03:04:05Z",
		"samples": [{"x": -2, "y": 4660, "z": 300, "status": 3}]
	}`, string(body))
}

func TestBridgePublishesTappedBatches(t *testing.T) {
	pub := &fakePublisher{sent: make(chan struct{}, 1)}
	b := NewBridge(pub, "card10", "dev", 4)
	b.now = func() time.Time { return time.Unix(0, 0) }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	b.Tap(epic.Gyroscope, []epic.DataVector{{Z: 9, Status: 3}})
	select {
	case <-pub.sent:
	case <-time.After(5 * time.Second):
		t.Fatal("batch was not published")
	}
	cancel()
	require.NoError(t, <-done)

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.msgs, 1)
	require.Equal(t, "card10/dev/bhi160/gyroscope", pub.msgs[0].topic)
	require.Contains(t, pub.msgs[0].payload, `"z":9`)
	published, dropped := b.Stats()
	require.Equal(t, uint64(1), published)
	require.Zero(t, dropped)
}

func TestBridgeTapNeverBlocks(t *testing.T) {
	b := NewBridge(&fakePublisher{}, "", "", 2)
	for i := 0; i < 5; i++ {
		b.Tap(epic.Accelerometer, nil)
	}
	_, dropped := b.Stats()
	require.Equal(t, uint64(3), dropped)
}

func TestBridgePublishError(t *testing.T) {
	b := NewBridge(&fakePublisher{err: errors.New("offline")}, "", "", 1)
	b.publish(Batch{Sensor: "accelerometer"})
	published, _ := b.Stats()
	require.Zero(t, published)
}

func TestClientOptionsFromURL(t *testing.T) {
	opts, prefix, err := ClientOptionsFromURL("mqtt://u:p@broker:1883/lab/badges?client-id=abc")
	require.NoError(t, err)
	require.Equal(t, "lab/badges", prefix)
	require.Len(t, opts.Servers, 1)
	require.Equal(t, "tcp://broker:1883", opts.Servers[0].String())
	require.Equal(t, "u", opts.Username)
	require.Equal(t, "p", opts.Password)
	require.Equal(t, "abc", opts.ClientID)
}
