package hal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"card10/epic"
)

func TestIMUEnableRules(t *testing.T) {
	s := NewSim(SimConfig{})
	cfg := epic.SensorConfig{SampleBufferLen: 4, SampleRate: 10, DynamicRange: 2}

	sd := s.BHI160Enable(epic.Accelerometer, cfg)
	require.GreaterOrEqual(t, sd, firstStreamDescriptor)
	require.Equal(t, -epic.EBUSY, s.BHI160Enable(epic.Accelerometer, cfg))
	require.Equal(t, -epic.EINVAL, s.BHI160Enable(epic.Gyroscope, epic.SensorConfig{}))
	require.Equal(t, -epic.ENODEV, s.BHI160Enable(epic.SensorType(7), cfg))

	other := s.BHI160Enable(epic.Gyroscope, cfg)
	require.NotEqual(t, sd, other)
	require.Equal(t, []epic.SensorType{epic.Accelerometer, epic.Gyroscope}, s.IMU.Enabled())

	s.BHI160Disable(epic.Accelerometer)
	require.Equal(t, -epic.EBADF, s.StreamRead(sd, make([]byte, epic.SampleSize)))
}

func TestIMUReadValidatesBuffer(t *testing.T) {
	s := NewSim(SimConfig{})
	sd := s.BHI160Enable(epic.Accelerometer, epic.SensorConfig{SampleRate: 10})
	require.Equal(t, -epic.EINVAL, s.StreamRead(sd, make([]byte, epic.SampleSize+1)))
	require.Equal(t, 0, s.StreamRead(sd, make([]byte, epic.SampleSize)))
}

func TestIMUPushedSamples(t *testing.T) {
	s := NewSim(SimConfig{})
	sd := s.BHI160Enable(epic.Orientation, epic.SensorConfig{SampleBufferLen: 3, SampleRate: 10})

	require.False(t, s.IMU.PushSample(epic.Gyroscope, epic.DataVector{}))
	for i := 0; i < 5; i++ {
		require.True(t, s.IMU.PushSample(epic.Orientation, epic.DataVector{X: int16(i)}))
	}

	var tapped []epic.DataVector
	s.IMU.SetTap(func(kind epic.SensorType, samples []epic.DataVector) {
		require.Equal(t, epic.Orientation, kind)
		tapped = append(tapped, samples...)
	})

	buf := make([]byte, 10*epic.SampleSize)
	n := s.StreamRead(sd, buf)
	require.Equal(t, 3, n)
	// The queue keeps the newest three.
	require.Equal(t, int16(2), epic.DecodeDataVector(buf).X)
	require.Equal(t, int16(4), epic.DecodeDataVector(buf[2*epic.SampleSize:]).X)
	require.Equal(t, byte(epic.Orientation), buf[0])
	require.Len(t, tapped, 3)
}

func TestIMUSyntheticRate(t *testing.T) {
	now := time.Unix(0, 0)
	clock := func() time.Time { return now }

	s := NewSim(SimConfig{Now: clock, SyntheticSensors: true})
	sd := s.BHI160Enable(epic.Accelerometer, epic.SensorConfig{SampleBufferLen: 100, SampleRate: 10, DynamicRange: 4})
	buf := make([]byte, 100*epic.SampleSize)

	require.Equal(t, 1, s.StreamRead(sd, buf))
	require.Equal(t, 0, s.StreamRead(sd, buf))

	now = now.Add(time.Second)
	require.Equal(t, 10, s.StreamRead(sd, buf))

	// A long pause yields at most a full queue.
	now = now.Add(time.Hour)
	require.Equal(t, 100, s.StreamRead(sd, buf))
}

func TestWaveformScale(t *testing.T) {
	v := waveform(epic.Accelerometer, 2, 0)
	require.Equal(t, int16(0), v.X)
	require.InDelta(t, 32767/2, int(v.Y), 1)
	require.Equal(t, uint8(3), v.Status)

	v = waveform(epic.Accelerometer, 2, time.Second)
	require.InDelta(t, 32767/2, int(v.X), 1)

	v = waveform(epic.Orientation, 0, 2*time.Second)
	require.InDelta(t, 180*91, int(v.X), 1)

	require.Equal(t, int16(32767), clamp16(1e9))
	require.Equal(t, int16(-32768), clamp16(-1e9))
}
