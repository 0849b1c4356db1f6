package pcd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOrigin = r3.Vector{X: 281500, Y: 1614100}

func testPoints() []r3.Vector {
	return []r3.Vector{
		{X: 281510.5, Y: 1614120.25, Z: 1},
		{X: 281511.5, Y: 1614121.25, Z: 2},
		{X: 281512.5, Y: 1614122.25, Z: 3},
		{X: 281513.5, Y: 1614123.25, Z: 4},
		{X: 281514.5, Y: 1614124.25, Z: 5},
	}
}

func TestNew(t *testing.T) {
	c := New(testOrigin, testPoints())
	assert.Equal(t, 5, c.Len())
	assert.False(t, c.HasColor())
	assert.Nil(t, c.Colors())
	assert.Equal(t, testPoints(), c.WorldPoints())

	// Centimetres survive because the stored values are relative.
	p := r3.Vector{X: 281580.79, Y: 1614183.65, Z: 12.34}
	got := New(testOrigin, []r3.Vector{p}).WorldPoints()[0]
	assert.InDelta(t, p.X, got.X, 1e-3)
	assert.InDelta(t, p.Y, got.Y, 1e-3)
	assert.InDelta(t, p.Z, got.Z, 1e-3)
}

func TestNewColored(t *testing.T) {
	c, err := NewColored(testOrigin, testPoints(), []uint32{1, 2, 3, 4, 5})
	require.NoError(t, err)
	assert.True(t, c.HasColor())
	assert.Equal(t, []uint32{1, 2, 3, 4, 5}, c.Colors())

	_, err = NewColored(testOrigin, testPoints(), []uint32{1})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, Validate(nil), ErrEmptyCloud)
	assert.ErrorIs(t, Validate(&Cloud{}), ErrEmptyCloud)
	assert.ErrorIs(t, Validate(New(r3.Vector{}, nil)), ErrEmptyCloud)
	assert.NoError(t, Validate(New(r3.Vector{}, []r3.Vector{{}})))
}

func TestSelect(t *testing.T) {
	pts := testPoints()
	c := New(testOrigin, pts)

	testCases := map[string]struct {
		indice          []int
		expected        []r3.Vector
		expectedInverse []r3.Vector
	}{
		"Empty": {
			indice:          nil,
			expected:        nil,
			expectedInverse: pts,
		},
		"Continuous": {
			indice:          []int{1, 2, 3},
			expected:        []r3.Vector{pts[1], pts[2], pts[3]},
			expectedInverse: []r3.Vector{pts[0], pts[4]},
		},
		"Sparse": {
			indice:          []int{0, 2, 4},
			expected:        []r3.Vector{pts[0], pts[2], pts[4]},
			expectedInverse: []r3.Vector{pts[1], pts[3]},
		},
		"Unordered": {
			indice:          []int{4, 0, 1},
			expected:        []r3.Vector{pts[4], pts[0], pts[1]},
			expectedInverse: []r3.Vector{pts[2], pts[3]},
		},
		"OutOfRange": {
			indice:          []int{-1, 3, 5},
			expected:        []r3.Vector{pts[3]},
			expectedInverse: []r3.Vector{pts[0], pts[1], pts[2], pts[4]},
		},
		"All": {
			indice:          []int{0, 1, 2, 3, 4},
			expected:        pts,
			expectedInverse: nil,
		},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			sel := c.Select(tt.indice)
			assert.Equal(t, tt.expected, sel.WorldPoints())
			assert.Equal(t, testOrigin, sel.Origin)

			inv := c.SelectInverse(tt.indice)
			assert.Equal(t, tt.expectedInverse, inv.WorldPoints())
		})
	}
	assert.Equal(t, pts, c.WorldPoints(), "input must not be modified")
}

func TestSelect_KeepsColor(t *testing.T) {
	c, err := NewColored(testOrigin, testPoints(), []uint32{10, 20, 30, 40, 50})
	require.NoError(t, err)
	assert.Equal(t, []uint32{20, 40}, c.Select([]int{1, 3}).Colors())
	assert.Equal(t, []uint32{10, 30, 50}, c.SelectInverse([]int{1, 3}).Colors())
}

func TestPassThrough(t *testing.T) {
	pts := testPoints()
	c := New(testOrigin, pts)
	out, err := c.PassThrough(func(i int, p r3.Vector) bool {
		return i != 1 && p.Z < 5
	})
	require.NoError(t, err)
	assert.Equal(t, []r3.Vector{pts[0], pts[2], pts[3]}, out.WorldPoints())

	out, err = New(testOrigin, nil).PassThrough(func(int, r3.Vector) bool { return true })
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
}

func TestMerge(t *testing.T) {
	pts := testPoints()
	a := New(testOrigin, pts[:2])
	b := New(testOrigin, pts[2:])
	colored, err := NewColored(r3.Vector{X: 281510, Y: 1614120}, pts[2:], []uint32{1, 2, 3})
	require.NoError(t, err)

	testCases := map[string]struct {
		a, b     *Cloud
		expected []r3.Vector
		colored  bool
	}{
		"SameLayout": {a: a, b: b, expected: pts},
		"DifferentLayout": {
			a: a, b: colored, expected: pts,
		},
		"EmptyOther":  {a: a, b: New(testOrigin, nil), expected: pts[:2]},
		"EmptySelf":   {a: New(testOrigin, nil), b: b, expected: pts[2:]},
		"NilOther":    {a: a, b: nil, expected: pts[:2]},
		"BothColored": {a: colored, b: colored, expected: append(append([]r3.Vector{}, pts[2:]...), pts[2:]...), colored: true},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			m, err := tt.a.Merge(tt.b)
			require.NoError(t, err)
			got := m.WorldPoints()
			require.Len(t, got, len(tt.expected))
			for i := range got {
				assert.InDelta(t, tt.expected[i].X, got[i].X, 1e-3)
				assert.InDelta(t, tt.expected[i].Y, got[i].Y, 1e-3)
				assert.InDelta(t, tt.expected[i].Z, got[i].Z, 1e-3)
			}
			assert.Equal(t, tt.colored, m.HasColor())
		})
	}
	assert.Equal(t, 2, a.Len(), "input must not be modified")
}

func TestColorize(t *testing.T) {
	c, err := New(testOrigin, testPoints()).Colorize(PackRGB(0, 0, 255))
	require.NoError(t, err)
	for _, rgb := range c.Colors() {
		r, g, b := UnpackRGB(rgb)
		assert.Equal(t, [3]uint8{0, 0, 255}, [3]uint8{r, g, b})
	}
	assert.Equal(t, uint32(0xFF0000), PackRGB(255, 0, 0))
}

func TestClone(t *testing.T) {
	c := New(testOrigin, testPoints())
	cl := c.Clone()
	cl.Data[0] = ^cl.Data[0]
	assert.Equal(t, testPoints(), c.WorldPoints())
	assert.Nil(t, (*Cloud)(nil).Clone())
}

func TestPCD(t *testing.T) {
	c, err := NewColored(r3.Vector{}, []r3.Vector{
		{X: 1, Y: 2, Z: 3},
		{X: 4, Y: 5, Z: 6},
	}, []uint32{0xFF0000, 0x0000FF})
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, WritePCD(buf, c))
	out, err := ReadPCD(buf)
	require.NoError(t, err)
	assert.Equal(t, c.WorldPoints(), out.WorldPoints())
	assert.Equal(t, c.Colors(), out.Colors())
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cloud.pcd")
	c := New(r3.Vector{}, []r3.Vector{{X: 1, Y: 2, Z: 3}})
	require.NoError(t, WriteFile(path, c))

	out, err := ReadFile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, c.WorldPoints(), out.WorldPoints())

	garbage := filepath.Join(dir, "garbage.pcd")
	require.NoError(t, os.WriteFile(garbage, []byte("not a pcd"), 0o644))

	testCases := map[string]struct {
		path        string
		unsupported bool
	}{
		"Missing":     {path: filepath.Join(dir, "missing.pcd")},
		"Malformed":   {path: garbage},
		"LAZ":         {path: filepath.Join(dir, "cloud.laz"), unsupported: true},
		"UnknownType": {path: filepath.Join(dir, "cloud.ply"), unsupported: true},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			_, err := ReadFile(tt.path, nil)
			require.Error(t, err)
			assert.Equal(t, tt.unsupported, errors.Is(err, ErrUnsupportedFormat))
		})
	}

	assert.ErrorIs(t, WriteFile(filepath.Join(dir, "out.ply"), c), ErrUnsupportedFormat)
}
