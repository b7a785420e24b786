package hal

import (
	"math"
	"sort"
	"sync"
	"time"

	"card10/epic"
)

// SampleTap observes every batch of samples handed to a payload.
type SampleTap func(kind epic.SensorType, samples []epic.DataVector)

type imuStream struct {
	kind  epic.SensorType
	cfg   epic.SensorConfig
	sd    int
	queue []epic.DataVector
	limit int

	t0   time.Time
	next time.Time
}

// IMU simulates the BHI160 sensor hub.
//
// Each enabled sensor gets a stream descriptor and a bounded queue. When
// synthetic data is on, samples are generated at the configured rate from
// the clock; PushSample adds samples by hand either way.
type IMU struct {
	mu        sync.Mutex
	now       func() time.Time
	synthetic bool
	maxQueue  int
	streams   map[epic.SensorType]*imuStream
	nextSD    int
	tap       SampleTap
	log       Logger
}

// descriptors start above stdio like the firmware's.
const firstStreamDescriptor = 3

func newIMU(now func() time.Time, synthetic bool, maxQueue int, log Logger) *IMU {
	if now == nil {
		now = time.Now
	}
	if maxQueue <= 0 || maxQueue > epic.MaxBufferSize {
		maxQueue = epic.MaxBufferSize
	}
	return &IMU{
		now:       now,
		synthetic: synthetic,
		maxQueue:  maxQueue,
		streams:   make(map[epic.SensorType]*imuStream),
		nextSD:    firstStreamDescriptor,
		log:       log,
	}
}

// SetTap installs fn as the sample observer. nil removes it.
func (m *IMU) SetTap(fn SampleTap) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tap = fn
}

// Enabled lists the sensors that currently stream, in type order.
func (m *IMU) Enabled() []epic.SensorType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]epic.SensorType, 0, len(m.streams))
	for k := range m.streams {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// PushSample queues v on the stream of kind. It reports false if the
// sensor is not enabled.
func (m *IMU) PushSample(kind epic.SensorType, v epic.DataVector) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.streams[kind]
	if s == nil {
		return false
	}
	s.push(v)
	return true
}

// DisableAll stops every stream. The supervisor uses it after a payload
// ends.
func (m *IMU) DisableAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.streams {
		delete(m.streams, k)
	}
}

func (m *IMU) enable(kind epic.SensorType, cfg epic.SensorConfig) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if kind > epic.Gyroscope {
		return -epic.ENODEV
	}
	if _, ok := m.streams[kind]; ok {
		logf(m.log, "bhi160: %s already enabled", kind)
		return -epic.EBUSY
	}
	if cfg.SampleRate == 0 {
		return -epic.EINVAL
	}
	limit := cfg.SampleBufferLen
	if limit <= 0 || limit > m.maxQueue {
		limit = m.maxQueue
	}
	now := m.now()
	s := &imuStream{
		kind:  kind,
		cfg:   cfg,
		sd:    m.nextSD,
		limit: limit,
		t0:    now,
		next:  now,
	}
	m.nextSD++
	m.streams[kind] = s
	return s.sd
}

func (m *IMU) disable(kind epic.SensorType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.streams, kind)
}

func (m *IMU) read(sd int, buf []byte) int {
	m.mu.Lock()
	var s *imuStream
	for _, st := range m.streams {
		if st.sd == sd {
			s = st
			break
		}
	}
	if s == nil {
		m.mu.Unlock()
		return -epic.EBADF
	}
	if len(buf)%epic.SampleSize != 0 {
		m.mu.Unlock()
		return -epic.EINVAL
	}
	if m.synthetic {
		s.generate(m.now())
	}

	n := len(buf) / epic.SampleSize
	if n > len(s.queue) {
		n = len(s.queue)
	}
	batch := make([]epic.DataVector, n)
	copy(batch, s.queue[:n])
	s.queue = s.queue[n:]
	tap := m.tap
	kind := s.kind
	m.mu.Unlock()

	for i, v := range batch {
		epic.PutDataVector(buf[i*epic.SampleSize:], kind, v)
	}
	if tap != nil && n > 0 {
		tap(kind, batch)
	}
	return n
}

func (s *imuStream) push(v epic.DataVector) {
	if len(s.queue) >= s.limit {
		s.queue = s.queue[1:]
	}
	s.queue = append(s.queue, v)
}

// generate queues the samples due between the last call and now. After a
// long pause only the most recent queue-full is produced.
func (s *imuStream) generate(now time.Time) {
	period := time.Second / time.Duration(s.cfg.SampleRate)
	if period <= 0 {
		period = time.Millisecond
	}
	if now.Before(s.next) {
		return
	}
	due := uint64(now.Sub(s.next)/period) + 1
	if due > uint64(s.limit) {
		skip := due - uint64(s.limit)
		s.next = s.next.Add(time.Duration(skip) * period)
		due = uint64(s.limit)
	}
	for i := uint64(0); i < due; i++ {
		s.push(waveform(s.kind, s.cfg.DynamicRange, s.next.Sub(s.t0)))
		s.next = s.next.Add(period)
	}
}

// waveform is a slow rotation of the badge: gravity circles in the x/y
// plane and the gyroscope reports the matching turn rate.
func waveform(kind epic.SensorType, dynamicRange uint16, t time.Duration) epic.DataVector {
	const turn = 4 * time.Second
	phase := 2 * math.Pi * float64(t%turn) / float64(turn)

	r := float64(dynamicRange)
	if r <= 0 {
		r = 1
	}
	// One unit of the sensor's range (1 g, 1 dps) in raw counts.
	unit := 32767 / r

	switch kind {
	case epic.Orientation:
		// Heading in 1/91 degree steps, as the sensor hub reports it.
		deg := 360 * phase / (2 * math.Pi)
		return epic.DataVector{X: clamp16(deg * 91), Status: 3}
	case epic.Gyroscope:
		rate := 360 / turn.Seconds()
		return epic.DataVector{Z: clamp16(rate * unit), Status: 3}
	default:
		return epic.DataVector{
			X:      clamp16(math.Sin(phase) * unit),
			Y:      clamp16(math.Cos(phase) * unit),
			Z:      clamp16(0.1 * unit),
			Status: 3,
		}
	}
}

func clamp16(v float64) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}
