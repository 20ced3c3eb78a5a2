package fake

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var allBits = []int{1, 2, 4, 8, 16, 32}

func mustPacker(t *testing.T, nbits int, swap bool) *Packer {
	t.Helper()

	var p, err = NewPacker(nbits, DEFAULT_CLIP_MIN, DEFAULT_CLIP_MAX, swap)
	require.NoError(t, err)

	return p
}

func TestPackerUnsupportedBits(t *testing.T) {
	for _, nbits := range []int{0, 3, 5, 12, 24, 64, -8} {
		var _, err = NewPacker(nbits, -4, 4, false)
		assert.ErrorIs(t, err, ErrUnsupportedBits, "nbits %d", nbits)
	}
}

func TestPackerEmptyWindow(t *testing.T) {
	var _, err = NewPacker(8, 4, 4, false)
	assert.ErrorIs(t, err, ErrBadConfig)
}

func TestPackedSize(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var nbits = rapid.SampledFrom(allBits).Draw(t, "nbits")
		var values = rapid.SliceOfN(rapid.Float32Range(-10, 10), 0, 300).Draw(t, "values")

		var p, err = NewPacker(nbits, DEFAULT_CLIP_MIN, DEFAULT_CLIP_MAX, false)
		if err != nil {
			t.Fatal(err)
		}

		var packed = p.Pack(nil, values)
		var want = int(math.Ceil(float64(len(values)*nbits) / 8))

		assert.Len(t, packed, want)
		assert.Equal(t, want, PackedSize(len(values), nbits))
	})
}

func TestPackedSizeFourBitBlock(t *testing.T) {
	var p = mustPacker(t, 4, false)
	var block = make([]float32, 512*128*1)

	assert.Len(t, p.Pack(nil, block), 32768)
}

func TestPackAppends(t *testing.T) {
	var p = mustPacker(t, 8, false)
	var dst = []byte{0xAA}

	dst = p.Pack(dst, []float32{-4, 4})

	assert.Equal(t, []byte{0xAA, 0x00, 0xFF}, dst)
}

func TestZeroRoundTrip(t *testing.T) {
	var zeros = make([]float32, 64)

	for _, nbits := range allBits {
		var p = mustPacker(t, nbits, false)

		var values, err = p.Unpack(p.Pack(nil, zeros), len(zeros))
		require.NoError(t, err)

		for i, v := range values {
			if nbits == 32 {
				assert.Zero(t, v)
			} else {
				assert.InDelta(t, 0.0, v, p.Step(), "nbits %d sample %d", nbits, i)
			}
		}
	}
}

func TestRoundTripWithinOneStep(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var nbits = rapid.SampledFrom([]int{1, 2, 4, 8, 16}).Draw(t, "nbits")
		var swap = rapid.Bool().Draw(t, "swap")
		var values = rapid.SliceOfN(rapid.Float32Range(-4, 4), 1, 100).Draw(t, "values")

		var p, err = NewPacker(nbits, DEFAULT_CLIP_MIN, DEFAULT_CLIP_MAX, swap)
		if err != nil {
			t.Fatal(err)
		}

		var back, unpackErr = p.Unpack(p.Pack(nil, values), len(values))
		if unpackErr != nil {
			t.Fatal(unpackErr)
		}

		for i, v := range values {
			assert.InDelta(t, float64(v), back[i], p.Step())
		}
	})
}

func TestPackClips(t *testing.T) {
	var p = mustPacker(t, 8, false)

	var packed = p.Pack(nil, []float32{-100, 100, float32(math.Inf(1)), float32(math.Inf(-1)), float32(math.NaN())})

	assert.Equal(t, []byte{0x00, 0xFF, 0xFF, 0x00, 0x00}, packed)
}

func TestPackBitOrder(t *testing.T) {
	const lo, hi = DEFAULT_CLIP_MIN, DEFAULT_CLIP_MAX

	var tests = []struct {
		name     string
		nbits    int
		block    []float32
		expected []byte
	}{
		{"4 bit, first sample in low nibble", 4, []float32{lo, hi}, []byte{0xF0}},
		{"4 bit, second byte", 4, []float32{lo, lo, hi, lo}, []byte{0x00, 0x0F}},
		{"2 bit", 2, []float32{hi, lo, lo, lo}, []byte{0x03}},
		{"2 bit, last slot", 2, []float32{lo, lo, lo, hi}, []byte{0xC0}},
		{"1 bit, first sample is bit 0", 1, []float32{hi, lo, lo, lo, lo, lo, lo, lo}, []byte{0x01}},
		{"1 bit, last sample is bit 7", 1, []float32{lo, lo, lo, lo, lo, lo, lo, hi}, []byte{0x80}},
		{"1 bit, partial byte padded", 1, []float32{hi, hi, hi}, []byte{0x07}},
		{"4 bit, partial byte padded", 4, []float32{lo, hi, hi}, []byte{0xF0, 0x0F}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p = mustPacker(t, tt.nbits, false)
			assert.Equal(t, tt.expected, p.Pack(nil, tt.block))
		})
	}
}

func TestPackOneBitThreshold(t *testing.T) {
	// One bit output splits at the middle of the window.
	var p = mustPacker(t, 1, false)

	assert.Equal(t, []byte{0x02}, p.Pack(nil, []float32{-0.1, 0.1}))
}

func TestPackSixteenBit(t *testing.T) {
	var p = mustPacker(t, 16, false)
	var mid = float32(DEFAULT_CLIP_MIN + 258*p.Step()) // Level 0x0102

	assert.Equal(t, []byte{0x00, 0x00, 0xFF, 0xFF, 0x02, 0x01}, p.Pack(nil, []float32{-4, 4, mid}))

	var swapped = mustPacker(t, 16, true)

	assert.Equal(t, []byte{0x00, 0x00, 0xFF, 0xFF, 0x01, 0x02}, swapped.Pack(nil, []float32{-4, 4, mid}))
}

func TestPackFloat(t *testing.T) {
	var p = mustPacker(t, 32, false)
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3F}, p.Pack(nil, []float32{1.0}))

	var swapped = mustPacker(t, 32, true)
	assert.Equal(t, []byte{0x3F, 0x80, 0x00, 0x00}, swapped.Pack(nil, []float32{1.0}))

	// Floats are not clipped.
	var back, err = p.Unpack(p.Pack(nil, []float32{-123.5, 99}), 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{-123.5, 99}, back)
}

func TestUnpackShortInput(t *testing.T) {
	var p = mustPacker(t, 16, false)

	var _, err = p.Unpack([]byte{0x01, 0x02, 0x03}, 2)
	assert.Error(t, err)
}

func TestLevels(t *testing.T) {
	assert.Equal(t, 2, mustPacker(t, 1, false).Levels())
	assert.Equal(t, 16, mustPacker(t, 4, false).Levels())
	assert.Equal(t, 65536, mustPacker(t, 16, false).Levels())
	assert.Equal(t, 0, mustPacker(t, 32, false).Levels())
	assert.InDelta(t, 8.0/15.0, mustPacker(t, 4, false).Step(), 1e-12)
}
