package fake

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headerConfig() *RunConfig {
	return &RunConfig{
		Nchans:      128,
		Nifs:        1,
		Nsblk:       512,
		Nbeams:      1,
		Nbits:       4,
		Period:      0.0334,
		DM:          56.8,
		Tsamp:       80e-6,
		Tstart:      50000,
		Fch1:        433.968,
		Foff:        -0.062,
		MachineID:   10,
		TelescopeID: 4,
	}
}

// Expected encoding, built the slow way.
func encodeString(buf *bytes.Buffer, s string) {
	binary.Write(buf, binary.LittleEndian, int32(len(s))) //nolint:errcheck
	buf.WriteString(s)
}

func TestWriteHeaderLayout(t *testing.T) {
	var cfg = headerConfig()

	var want bytes.Buffer

	encodeString(&want, "HEADER_START")
	encodeString(&want, "source_name")
	encodeString(&want, "P: 33.400000000000 ms, DM: 56.800")

	for _, f := range []struct {
		name  string
		value any
	}{
		{"machine_id", int32(10)},
		{"telescope_id", int32(4)},
		{"data_type", int32(1)},
		{"fch1", 433.968},
		{"foff", -0.062},
		{"nchans", int32(128)},
		{"nbits", int32(4)},
		{"tstart", 50000.0},
		{"tsamp", 80e-6},
		{"nifs", int32(1)},
	} {
		encodeString(&want, f.name)
		binary.Write(&want, binary.LittleEndian, f.value) //nolint:errcheck
	}

	encodeString(&want, "HEADER_END")

	var got bytes.Buffer
	require.NoError(t, WriteHeader(&got, cfg))

	assert.Equal(t, want.Bytes(), got.Bytes())
}

func TestWriteHeaderStartsWithSentinel(t *testing.T) {
	var got bytes.Buffer
	require.NoError(t, WriteHeader(&got, headerConfig()))

	assert.Equal(t, []byte{12, 0, 0, 0, 'H', 'E', 'A', 'D', 'E', 'R', '_', 'S', 'T', 'A', 'R', 'T'}, got.Bytes()[:16])
	assert.True(t, bytes.HasSuffix(got.Bytes(), []byte("\x0a\x00\x00\x00HEADER_END")))
}

func TestHeaderRoundTrip(t *testing.T) {
	var cfg = headerConfig()

	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, cfg))

	var size = buf.Len()
	buf.Write([]byte{0xAB, 0xCD})

	var h, err = ReadHeader(&buf)
	require.NoError(t, err)

	assert.Equal(t, cfg.SourceName(), h.SourceName)
	assert.Equal(t, 10, h.MachineID)
	assert.Equal(t, 4, h.TelescopeID)
	assert.Equal(t, 1, h.DataType)
	assert.Equal(t, 128, h.Nchans)
	assert.Equal(t, 4, h.Nbits)
	assert.Equal(t, 1, h.Nifs)
	assert.Equal(t, 433.968, h.Fch1)
	assert.Equal(t, -0.062, h.Foff)
	assert.Equal(t, 50000.0, h.Tstart)
	assert.Equal(t, 80e-6, h.Tsamp)
	assert.False(t, h.HasRefDM)
	assert.Equal(t, size, h.Size)
	assert.Equal(t, 64, h.BytesPerSample())

	// Left at the first data byte.
	assert.Equal(t, []byte{0xAB, 0xCD}, buf.Bytes())
}

func TestHeaderSingleChannel(t *testing.T) {
	var cfg = headerConfig()
	cfg.Nchans = 1

	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, cfg))

	var h, err = ReadHeader(&buf)
	require.NoError(t, err)

	assert.Equal(t, 2, h.DataType)
	assert.True(t, h.HasRefDM)
	assert.Equal(t, 56.8, h.RefDM)
}

func TestHeaderEvenOddName(t *testing.T) {
	var cfg = headerConfig()
	cfg.EvenOdd = true

	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, cfg))

	var h, err = ReadHeader(&buf)
	require.NoError(t, err)

	assert.Equal(t, EVEN_ODD_SOURCE_NAME, h.SourceName)
}

type failingWriter struct {
	after int
}

var errWriteFailed = errors.New("write failed")

func (fw *failingWriter) Write(p []byte) (int, error) {
	if fw.after <= 0 {
		return 0, errWriteFailed
	}

	fw.after--

	return len(p), nil
}

func TestWriteHeaderError(t *testing.T) {
	var err = WriteHeader(&failingWriter{after: 5}, headerConfig())

	assert.ErrorIs(t, err, errWriteFailed)
}

func TestReadHeaderBadStart(t *testing.T) {
	var buf bytes.Buffer
	encodeString(&buf, "HEADER_BEGIN")

	var _, err = ReadHeader(&buf)
	assert.ErrorIs(t, err, ErrBadHeader)
}

func TestReadHeaderUnknownKeyword(t *testing.T) {
	var buf bytes.Buffer
	encodeString(&buf, HEADER_START)
	encodeString(&buf, "az_start")

	var _, err = ReadHeader(&buf)
	assert.ErrorIs(t, err, ErrBadHeader)
	assert.ErrorContains(t, err, "az_start")
}

func TestReadHeaderSillyLength(t *testing.T) {
	var _, err = ReadHeader(bytes.NewReader([]byte{0xFF, 0xFF, 0xFF, 0x7F}))
	assert.ErrorIs(t, err, ErrBadHeader)
}

func TestReadHeaderUnusableLayout(t *testing.T) {
	var tests = []struct {
		name   string
		modify func(cfg *RunConfig)
	}{
		{"no channels", func(cfg *RunConfig) { cfg.Nchans = 0 }},
		{"negative channels", func(cfg *RunConfig) { cfg.Nchans = -8 }},
		{"negative IFs", func(cfg *RunConfig) { cfg.Nifs = -1 }},
		{"no bits", func(cfg *RunConfig) { cfg.Nbits = 0 }},
		{"12 bits", func(cfg *RunConfig) { cfg.Nbits = 12 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg = headerConfig()
			tt.modify(cfg)

			var buf bytes.Buffer
			require.NoError(t, WriteHeader(&buf, cfg))
			buf.Write([]byte{0x01, 0x02, 0x03, 0x04})

			var h, err = ReadHeader(&buf)
			assert.ErrorIs(t, err, ErrBadHeader)
			assert.Nil(t, h)
		})
	}
}

func Test_HeaderMainZeroChannels(t *testing.T) {
	quiet(t)

	var cfg = headerConfig()
	cfg.Nchans = 0

	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, cfg))
	buf.Write([]byte{0x01, 0x02, 0x03, 0x04})

	var file = filepath.Join(t.TempDir(), "zero.fil")
	require.NoError(t, os.WriteFile(file, buf.Bytes(), 0600))

	setupPflag([]string{"fakehdr", "--spectrum", file})
	assert.Equal(t, 1, headerMain())

	setupPflag([]string{"fakehdr", "-n", "2", file})
	assert.Equal(t, 1, headerMain())
}

func TestReadHeaderTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, headerConfig()))

	var _, err = ReadHeader(bytes.NewReader(buf.Bytes()[:buf.Len()-3]))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
