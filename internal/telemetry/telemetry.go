// Package telemetry forwards the sensor samples payloads read to an MQTT
// broker.
package telemetry

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"card10/epic"
)

// Publisher sends one message.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// Sample is the JSON form of an epic.DataVector.
type Sample struct {
	X      int16 `json:"x"`
	Y      int16 `json:"y"`
	Z      int16 `json:"z"`
	Status uint8 `json:"status"`
}

// Batch is one stream read.
type Batch struct {
	Sensor  string    `json:"sensor"`
	Time    time.Time `json:"time"`
	Samples []Sample  `json:"samples"`

	kind epic.SensorType
}

// Encode returns the message body for a batch.
func Encode(b Batch) ([]byte, error) {
	return json.Marshal(b)
}

// Topic returns the topic a sensor's batches go to.
func Topic(prefix, device string, kind epic.SensorType) string {
	parts := make([]string, 0, 4)
	if p := strings.Trim(prefix, "/"); p != "" {
		parts = append(parts, p)
	}
	if device != "" {
		parts = append(parts, device)
	}
	return strings.Join(append(parts, "bhi160", kind.String()), "/")
}

// Bridge queues batches handed to Tap and publishes them from Run. Tap
// never blocks; when the queue is full the batch is dropped.
type Bridge struct {
	pub    Publisher
	prefix string
	device string
	now    func() time.Time
	ch     chan Batch

	published atomic.Uint64
	dropped   atomic.Uint64
}

func NewBridge(pub Publisher, prefix, device string, queue int) *Bridge {
	if queue <= 0 {
		queue = 1
	}
	return &Bridge{
		pub:    pub,
		prefix: prefix,
		device: device,
		now:    time.Now,
		ch:     make(chan Batch, queue),
	}
}

// Tap has the signature of hal.SampleTap.
func (b *Bridge) Tap(kind epic.SensorType, samples []epic.DataVector) {
	batch := Batch{
		Sensor:  kind.String(),
		Time:    b.now().UTC(),
		Samples: make([]Sample, len(samples)),
		kind:    kind,
	}
	for i, v := range samples {
		batch.Samples[i] = Sample{X: v.X, Y: v.Y, Z: v.Z, Status: v.Status}
	}
	select {
	case b.ch <- batch:
	default:
		if n := b.dropped.Add(1); n == 1 || n%100 == 0 {
			glog.Warningf("telemetry: queue full, %d batches dropped", n)
		}
	}
}

// Run publishes queued batches until ctx ends.
func (b *Bridge) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case batch := <-b.ch:
			b.publish(batch)
		}
	}
}

func (b *Bridge) publish(batch Batch) {
	body, err := Encode(batch)
	if err != nil {
		glog.Errorf("telemetry: encode: %v", err)
		return
	}
	topic := Topic(b.prefix, b.device, batch.kind)
	if err := b.pub.Publish(topic, body); err != nil {
		glog.Warningf("telemetry: publish %s: %v", topic, err)
		return
	}
	b.published.Add(1)
	glog.V(3).Infof("telemetry: PUB %q %d samples", topic, len(batch.Samples))
}

// Stats returns how many batches were published and dropped.
func (b *Bridge) Stats() (published, dropped uint64) {
	return b.published.Load(), b.dropped.Load()
}
