package epic_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"card10/epic"
	"card10/epic/epictest"
)

func samples(n int) []epic.DataVector {
	out := make([]epic.DataVector, n)
	for i := range out {
		out[i] = epic.DataVector{X: int16(i), Y: int16(-i), Z: int16(i * 2), Status: uint8(i % 4)}
	}
	return out
}

func TestDataVectorRecord(t *testing.T) {
	b := make([]byte, epic.SampleSize)
	v := epic.DataVector{X: -2, Y: 0x1234, Z: 300, Status: 3}
	epic.PutDataVector(b, epic.Gyroscope, v)

	require.Equal(t, []byte{2, 0, 0xFE, 0xFF, 0x34, 0x12, 0x2C, 0x01, 3, 0}, b)
	require.Equal(t, v, epic.DecodeDataVector(b))
}

func TestEnableSensorFailure(t *testing.T) {
	fw := epictest.Install()
	fw.EnableResult = -epic.ENODEV

	s, err := epic.EnableSensor(epic.Accelerometer, epic.SensorConfig{SampleBufferLen: 10})
	require.Nil(t, s)
	require.ErrorIs(t, err, epic.ErrDeviceOrResourceBusy)
}

func TestSensorRead(t *testing.T) {
	fw := epictest.Install()
	fw.EnableResult = 3
	fw.Stream = samples(5)

	s, err := epic.EnableSensor(epic.Accelerometer, epic.SensorConfig{SampleBufferLen: 3, SampleRate: 10, DynamicRange: 2})
	require.NoError(t, err)
	defer s.Disable()

	sd, ok := s.Descriptor()
	require.True(t, ok)
	require.Equal(t, 3, sd)

	got, err := s.Read()
	require.NoError(t, err)
	require.Equal(t, samples(5)[:3], got)
	require.Equal(t, []any{3, 3 * epic.SampleSize}, fw.Last().Args)

	got, err = s.Read()
	require.NoError(t, err)
	require.Equal(t, samples(5)[3:], got)

	got, err = s.Read()
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSensorReadCapsRequest(t *testing.T) {
	fw := epictest.Install()
	fw.Stream = samples(1500)

	s, err := epic.EnableSensor(epic.Orientation, epic.SensorConfig{SampleBufferLen: 5000})
	require.NoError(t, err)
	defer s.Disable()

	got, err := s.Read()
	require.NoError(t, err)
	require.Len(t, got, epic.MaxBufferSize)
	require.Equal(t, epic.MaxBufferSize*epic.SampleSize, fw.Last().Args[1])
}

func TestSensorReadZeroBuffer(t *testing.T) {
	fw := epictest.Install()
	s, err := epic.EnableSensor(epic.Gyroscope, epic.SensorConfig{})
	require.NoError(t, err)
	defer s.Disable()

	got, err := s.Read()
	require.NoError(t, err)
	require.Empty(t, got)
	require.Zero(t, fw.Count("StreamRead"))
}

func TestSensorReadOverReported(t *testing.T) {
	fw := epictest.Install()
	fw.Stream = samples(2)
	lie := 99
	fw.Reported = &lie

	s, err := epic.EnableSensor(epic.Accelerometer, epic.SensorConfig{SampleBufferLen: 4})
	require.NoError(t, err)
	defer s.Disable()

	got, err := s.Read()
	require.ErrorIs(t, err, epic.ErrDeviceOrResourceBusy)
	require.Empty(t, got)
}

func TestSensorReadNeverReturnsEarlierRecords(t *testing.T) {
	fw := epictest.Install()
	fw.Stream = []epic.DataVector{{X: 11}, {X: 22}, {X: 33}}

	s, err := epic.EnableSensor(epic.Accelerometer, epic.SensorConfig{SampleBufferLen: 3})
	require.NoError(t, err)
	defer s.Disable()

	got, err := s.Read()
	require.NoError(t, err)
	require.Equal(t, []epic.DataVector{{X: 11}, {X: 22}, {X: 33}}, got)

	// Nothing queued, but the firmware claims a full buffer.
	claimed := 3
	fw.Reported = &claimed
	got, err = s.Read()
	require.ErrorIs(t, err, epic.ErrDeviceOrResourceBusy)
	require.Empty(t, got)

	// An honest short read after that only carries what was written.
	fw.Reported = nil
	fw.Stream = []epic.DataVector{{X: 44}}
	got, err = s.Read()
	require.NoError(t, err)
	require.Equal(t, []epic.DataVector{{X: 44}}, got)
}

func TestSensorDropDisables(t *testing.T) {
	fw := epictest.Install()

	func() {
		_, err := epic.EnableSensor(epic.Gyroscope, epic.SensorConfig{SampleBufferLen: 4})
		require.NoError(t, err)
	}()

	collectUntil(t, func() bool { return fw.Count("BHI160Disable") > 0 })
	require.Equal(t, 1, fw.Count("BHI160Disable"))
}

func TestSensorReadNegative(t *testing.T) {
	fw := epictest.Install()
	bad := -epic.EBADF
	fw.Reported = &bad

	s, err := epic.EnableSensor(epic.Accelerometer, epic.SensorConfig{SampleBufferLen: 4})
	require.NoError(t, err)
	defer s.Disable()

	got, err := s.Read()
	require.ErrorIs(t, err, epic.ErrDeviceOrResourceBusy)
	require.Nil(t, got)
}

func TestSensorDisable(t *testing.T) {
	fw := epictest.Install()
	fw.Stream = samples(3)

	s, err := epic.EnableSensor(epic.Accelerometer, epic.SensorConfig{SampleBufferLen: 8})
	require.NoError(t, err)
	s.Disable()
	s.Disable()
	require.Equal(t, 1, fw.Count("BHI160Disable"))
	require.False(t, s.Enabled())

	_, ok := s.Descriptor()
	require.False(t, ok)

	fw.Reset()
	got, err := s.Read()
	require.NoError(t, err)
	require.Empty(t, got)
	require.Zero(t, fw.Count("StreamRead"))
}

func TestWithSensor(t *testing.T) {
	fw := epictest.Install()
	fw.Stream = samples(1)
	done := errors.New("done")

	err := epic.WithSensor(epic.Gyroscope, epic.SensorConfig{SampleBufferLen: 1}, func(s *epic.Sensor) error {
		require.Equal(t, epic.Gyroscope, s.Kind())
		v, err := s.Read()
		require.NoError(t, err)
		require.Len(t, v, 1)
		return done
	})
	require.ErrorIs(t, err, done)
	require.Equal(t, epictest.Call{Name: "BHI160Disable", Args: []any{epic.Gyroscope}}, fw.Last())
}

func TestSensorTypeString(t *testing.T) {
	require.Equal(t, "accelerometer", epic.Accelerometer.String())
	require.Equal(t, "orientation", epic.Orientation.String())
	require.Equal(t, "gyroscope", epic.Gyroscope.String())
	require.Equal(t, "unknown", epic.SensorType(9).String())
}
