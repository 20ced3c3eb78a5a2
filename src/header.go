package fake

/*------------------------------------------------------------------
 *
 * Purpose:	Read and write the tagged "sigproc" style header that
 *		goes in front of the sample data.
 *
 * Description:	Everything is a sequence of tagged values:
 *
 *			string:	int32 length, then that many bytes,
 *				no terminator.
 *			int:	name string, then int32.
 *			double:	name string, then float64.
 *
 *		The header starts with the string HEADER_START and
 *		ends with HEADER_END.  Sample data follows immediately.
 *		Numbers are little endian.  Byte swapping of the data
 *		with --swapout does not apply to the header.
 *
 *------------------------------------------------------------------*/

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	HEADER_START = "HEADER_START"
	HEADER_END   = "HEADER_END"
)

// Longest tag or string value we accept when reading.
const MAX_HEADER_STRING = 80

var ErrBadHeader = errors.New("bad header")

// Header is what ReadHeader found.  Fields not present in the file are left zero.
type Header struct {
	SourceName  string
	MachineID   int
	TelescopeID int
	DataType    int
	Nchans      int
	Nbits       int
	Nifs        int
	Nbeams      int
	Fch1        float64
	Foff        float64
	Tstart      float64
	Tsamp       float64
	RefDM       float64
	HasRefDM    bool
	Size        int // Bytes, including both sentinels.
}

// Per sample bytes, i.e. one time step across all IFs and channels.
func (h *Header) BytesPerSample() int {
	return PackedSize(h.Nchans*max(h.Nifs, 1), h.Nbits)
}

type headerWriter struct {
	w   io.Writer
	err error
}

func (hw *headerWriter) write(data any) {
	if hw.err != nil {
		return
	}

	hw.err = binary.Write(hw.w, binary.LittleEndian, data)
}

func (hw *headerWriter) sendString(s string) {
	hw.write(int32(len(s)))
	hw.write([]byte(s))
}

func (hw *headerWriter) sendInt(name string, value int) {
	hw.sendString(name)
	hw.write(int32(value))
}

func (hw *headerWriter) sendDouble(name string, value float64) {
	hw.sendString(name)
	hw.write(value)
}

/*------------------------------------------------------------------
 *
 * Name:	WriteHeader
 *
 * Purpose:	Announce what is in the file.
 *
 * Description:	Field order is fixed, some readers depend on it.
 *		A single channel file is a dedispersed time series
 *		(data_type 2) and also records the DM it was made at.
 *
 *------------------------------------------------------------------*/

func WriteHeader(w io.Writer, cfg *RunConfig) error {
	var hw = &headerWriter{w: w}

	hw.sendString(HEADER_START)
	hw.sendString("source_name")
	hw.sendString(cfg.SourceName())
	hw.sendInt("machine_id", cfg.MachineID)
	hw.sendInt("telescope_id", cfg.TelescopeID)
	hw.sendInt("data_type", cfg.DataType())

	if cfg.DataType() == 2 {
		hw.sendDouble("refdm", cfg.DM)
	}

	hw.sendDouble("fch1", cfg.Fch1)
	hw.sendDouble("foff", cfg.Foff)
	hw.sendInt("nchans", cfg.Nchans)
	hw.sendInt("nbits", cfg.Nbits)
	hw.sendDouble("tstart", cfg.Tstart)
	hw.sendDouble("tsamp", cfg.Tsamp)
	hw.sendInt("nifs", cfg.Nifs)
	hw.sendString(HEADER_END)

	if hw.err != nil {
		return fmt.Errorf("writing header: %w", hw.err)
	}

	return nil
}

type headerReader struct {
	r    io.Reader
	size int
}

func (hr *headerReader) read(data any) error {
	var err = binary.Read(hr.r, binary.LittleEndian, data)
	if err == nil {
		hr.size += binary.Size(data)
	}

	return err
}

func (hr *headerReader) getString() (string, error) {
	var n int32

	var err = hr.read(&n)
	if err != nil {
		return "", err
	}

	if n < 1 || n > MAX_HEADER_STRING {
		return "", fmt.Errorf("%w: string length %d at offset %d", ErrBadHeader, n, hr.size-4)
	}

	var buf = make([]byte, n)

	err = hr.read(buf)
	if err != nil {
		return "", err
	}

	return string(buf), nil
}

func (hr *headerReader) getInt() (int, error) {
	var v int32
	var err = hr.read(&v)

	return int(v), err
}

func (hr *headerReader) getDouble() (float64, error) {
	var v float64
	var err = hr.read(&v)

	return v, err
}

// ReadHeader decodes a header, leaving r positioned at the first data byte.
func ReadHeader(r io.Reader) (*Header, error) {
	var hr = &headerReader{r: r}

	var start, startErr = hr.getString()
	if startErr != nil {
		return nil, fmt.Errorf("reading header start: %w", startErr)
	}

	if start != HEADER_START {
		return nil, fmt.Errorf("%w: expected %s, found %q", ErrBadHeader, HEADER_START, start)
	}

	var h = new(Header)

	for {
		var key, keyErr = hr.getString()
		if keyErr != nil {
			return nil, fmt.Errorf("reading header keyword: %w", keyErr)
		}

		if key == HEADER_END {
			break
		}

		var ip *int
		var dp *float64

		switch key {
		case "source_name":
			var name, err = hr.getString()
			if err != nil {
				return nil, fmt.Errorf("reading source_name: %w", err)
			}

			h.SourceName = name

			continue
		case "machine_id":
			ip = &h.MachineID
		case "telescope_id":
			ip = &h.TelescopeID
		case "data_type":
			ip = &h.DataType
		case "nchans":
			ip = &h.Nchans
		case "nbits":
			ip = &h.Nbits
		case "nifs":
			ip = &h.Nifs
		case "nbeams":
			ip = &h.Nbeams
		case "fch1":
			dp = &h.Fch1
		case "foff":
			dp = &h.Foff
		case "tstart":
			dp = &h.Tstart
		case "tsamp":
			dp = &h.Tsamp
		case "refdm":
			dp = &h.RefDM
			h.HasRefDM = true
		default:
			// No way to know how long the value is, so give up.
			return nil, fmt.Errorf("%w: unknown keyword %q", ErrBadHeader, key)
		}

		var err error
		if ip != nil {
			*ip, err = hr.getInt()
		} else {
			*dp, err = hr.getDouble()
		}

		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", key, err)
		}
	}

	h.Size = hr.size

	// Everything after the header is sized from these.
	if h.Nchans <= 0 || h.Nifs < 0 {
		return nil, fmt.Errorf("%w: %d channels, %d IFs", ErrBadHeader, h.Nchans, h.Nifs)
	}

	if !SupportedBits(h.Nbits) {
		return nil, fmt.Errorf("%w: %d bits per sample", ErrBadHeader, h.Nbits)
	}

	return h, nil
}
