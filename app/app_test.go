package app

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"card10/epic"
)

func TestPathName(t *testing.T) {
	require.Equal(t, "/apps/hello.elf", Path("hello"))
	require.Equal(t, "hello", Name(Path("hello")))
	require.Equal(t, "/flash/x.py", Name("/flash/x.py"))
}

func TestDefaultMenuListsOthers(t *testing.T) {
	reg := Default()
	paths := reg.Paths()
	require.Contains(t, paths, MenuPath)
	require.Contains(t, paths, Path("hello"))
	require.Contains(t, paths, Path("accelplot"))
	_, ok := reg.Lookup(Path("missing"))
	require.False(t, ok)
}

func TestMenuMove(t *testing.T) {
	m := &menu{apps: []string{"a", "b", "c"}}
	m.move(epic.ButtonLeftBottom)
	require.Equal(t, 2, m.sel)
	m.move(epic.ButtonRightBottom)
	m.move(epic.ButtonRightBottom)
	require.Equal(t, 1, m.sel)
	p, ok := m.selected()
	require.True(t, ok)
	require.Equal(t, "b", p)

	empty := &menu{}
	empty.move(epic.ButtonRightBottom)
	if _, ok := empty.selected(); ok {
		t.Fatal("empty menu has a selection")
	}
}

func TestMenuWindow(t *testing.T) {
	apps := make([]string, 9)
	tests := []struct {
		sel, first int
	}{
		{0, 0},
		{2, 0},
		{3, 1},
		{6, 4},
		{8, 4},
	}
	for _, tt := range tests {
		m := &menu{apps: apps, sel: tt.sel}
		if got := m.window(); got != tt.first {
			t.Fatalf("sel %d: expected first row %d, got %d", tt.sel, tt.first, got)
		}
	}
	short := &menu{apps: []string{"a", "b"}, sel: 1}
	require.Equal(t, 0, short.window())
}

func TestAppendLine(t *testing.T) {
	line := appendLine(nil, []byte("ab\x01c"), 24)
	require.Equal(t, "abc", string(line))
	line = appendLine(line, []byte("x\r\nyz"), 24)
	require.Equal(t, "yz", string(line))
	line = appendLine(nil, []byte("0123456789"), 4)
	require.Equal(t, "6789", string(line))
}

func TestWheel(t *testing.T) {
	require.Equal(t, epic.Color{R: 255}, wheel(0))
	require.Equal(t, epic.Color{G: 255}, wheel(85))
	require.Equal(t, epic.Color{B: 255}, wheel(170))
}

func TestAxisScale(t *testing.T) {
	a := axis{min: math.Inf(1), max: math.Inf(-1)}
	require.Equal(t, 0.0, a.scale(5))
	require.Equal(t, 1.0, a.scale(15))
	require.Equal(t, 0.5, a.scale(10))
	require.Equal(t, 0.0, a.scale(-5))
}

func TestTakeRunes(t *testing.T) {
	p, rest := takeRunes("héllo", 2)
	require.Equal(t, "hé", p)
	require.Equal(t, "llo", rest)
	p, rest = takeRunes("ab", 5)
	require.Equal(t, "ab", p)
	require.Empty(t, rest)
}
