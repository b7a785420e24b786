package epic

import (
	"encoding/binary"
	"runtime"
)

// MaxBufferSize is the most records a single Sensor.Read returns.
const MaxBufferSize = 1024

// SampleSize is the size in bytes of one record in a sensor stream.
//
// Layout (little-endian, C struct bhi160_data_vector):
//   - u8: data type
//   - u8: padding
//   - i16: x
//   - i16: y
//   - i16: z
//   - u8: status
//   - u8: padding
const SampleSize = 10

// SensorType selects one of the BHI160 virtual sensors.
type SensorType uint8

const (
	Accelerometer SensorType = iota
	Orientation
	Gyroscope
)

func (t SensorType) String() string {
	switch t {
	case Accelerometer:
		return "accelerometer"
	case Orientation:
		return "orientation"
	case Gyroscope:
		return "gyroscope"
	default:
		return "unknown"
	}
}

// SensorConfig is passed to the firmware when a sensor is enabled.
type SensorConfig struct {
	// SampleBufferLen is how many records a read asks for. Values above
	// MaxBufferSize are capped.
	SampleBufferLen int
	// SampleRate in Hz.
	SampleRate uint16
	// DynamicRange in the sensor's native unit (g for the accelerometer,
	// dps for the gyroscope).
	DynamicRange uint16
}

// DataVector is one sample.
type DataVector struct {
	X, Y, Z int16
	Status  uint8
}

// PutDataVector encodes v as a stream record of the given sensor type into
// b, which must be at least SampleSize bytes.
func PutDataVector(b []byte, kind SensorType, v DataVector) {
	_ = b[SampleSize-1]
	b[0] = byte(kind)
	b[1] = 0
	binary.LittleEndian.PutUint16(b[2:4], uint16(v.X))
	binary.LittleEndian.PutUint16(b[4:6], uint16(v.Y))
	binary.LittleEndian.PutUint16(b[6:8], uint16(v.Z))
	b[8] = v.Status
	b[9] = 0
}

// DecodeDataVector decodes the stream record at the start of b.
func DecodeDataVector(b []byte) DataVector {
	_ = b[SampleSize-1]
	return DataVector{
		X:      int16(binary.LittleEndian.Uint16(b[2:4])),
		Y:      int16(binary.LittleEndian.Uint16(b[4:6])),
		Z:      int16(binary.LittleEndian.Uint16(b[6:8])),
		Status: b[8],
	}
}

// Sensor is an enabled BHI160 stream.
//
// Reads after Disable return nothing. Like Display, the sensor is disabled
// exactly once: by Disable, by WithSensor, or by a finalizer.
type Sensor struct {
	fw      Firmware
	kind    SensorType
	cfg     SensorConfig
	sd      int
	enabled bool
}

// EnableSensor starts streaming from the given sensor. A negative
// descriptor from the firmware is reported as ErrDeviceOrResourceBusy.
func EnableSensor(kind SensorType, cfg SensorConfig) (*Sensor, error) {
	fw := MustFirmware()
	sd := fw.BHI160Enable(kind, cfg)
	if sd < 0 {
		return nil, ErrDeviceOrResourceBusy
	}
	s := &Sensor{fw: fw, kind: kind, cfg: cfg, sd: sd, enabled: true}
	runtime.SetFinalizer(s, (*Sensor).Disable)
	return s, nil
}

// WithSensor enables a sensor, runs fn and disables it on every way out
// of fn.
func WithSensor(kind SensorType, cfg SensorConfig, fn func(s *Sensor) error) error {
	s, err := EnableSensor(kind, cfg)
	if err != nil {
		return err
	}
	defer s.Disable()
	return fn(s)
}

func (s *Sensor) Kind() SensorType     { return s.kind }
func (s *Sensor) Config() SensorConfig { return s.cfg }
func (s *Sensor) Enabled() bool        { return s.enabled }

// Descriptor returns the stream descriptor and whether the sensor is still
// enabled.
func (s *Sensor) Descriptor() (int, bool) { return s.sd, s.enabled }

// Read returns the samples the firmware has queued, oldest first, up to
// the configured buffer length. A count outside what was asked for is
// reported as ErrDeviceOrResourceBusy.
func (s *Sensor) Read() ([]DataVector, error) {
	if !s.enabled {
		return nil, nil
	}
	want := s.cfg.SampleBufferLen
	if want > MaxBufferSize {
		want = MaxBufferSize
	}
	if want <= 0 {
		return nil, nil
	}
	defer runtime.KeepAlive(s)
	buf := make([]byte, want*SampleSize)

	n := s.fw.StreamRead(s.sd, buf)
	if n < 0 || n > want {
		return nil, ErrDeviceOrResourceBusy
	}
	out := make([]DataVector, n)
	for i := range out {
		out[i] = DecodeDataVector(buf[i*SampleSize:])
	}
	return out, nil
}

// Disable stops the stream. The handle is marked disabled regardless of
// what the firmware does. Disabling twice is a no-op.
func (s *Sensor) Disable() {
	if !s.enabled {
		return
	}
	runtime.SetFinalizer(s, nil)
	s.fw.BHI160Disable(s.kind)
	s.enabled = false
	s.sd = -1
}
