package fake

/*------------------------------------------------------------------
 *
 * Name:	fakehdr
 *
 * Purpose:	Show what is in the header of a generated file, and
 *		optionally the first few samples.
 *
 * Examples:	fakehdr x.fil
 *		fake --tobs 1 --nbits 32 | fakehdr --samples 2
 *		fakehdr --spectrum x.fil
 *
 *------------------------------------------------------------------*/

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
)

func HeaderMain() {
	os.Exit(headerMain())
}

func headerMain() int {
	var samples = pflag.IntP("samples", "n", 0, "Also print the first n time samples, all IFs and channels.")
	var swapped = pflag.Bool("swapped", false, "Data were written with --swapout.")
	var spectrum = pflag.BoolP("spectrum", "s", false, "Report the strongest periodicity in the band summed data.")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - Show the header of a fake filterbank file.\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [file]\n", os.Args[0])
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Reads stdin if no file is given.\n")
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		return 0
	}

	if len(pflag.Args()) > 1 {
		pflag.Usage()
		return 1
	}

	if *spectrum && *samples > 0 {
		logger.Error("Pick one of --samples and --spectrum")
		return 1
	}

	var in io.Reader = os.Stdin
	var fileSize int64 = -1

	if len(pflag.Args()) == 1 && pflag.Arg(0) != "-" {
		var f, openErr = os.Open(pflag.Arg(0))
		if openErr != nil {
			logger.Error("Can't open file", "err", openErr)
			return 1
		}
		defer f.Close()

		var stat, statErr = f.Stat()
		if statErr == nil && stat.Mode().IsRegular() {
			fileSize = stat.Size()
		}

		in = f
	}

	var r = bufio.NewReader(in)

	var h, readErr = ReadHeader(r)
	if readErr != nil {
		logger.Error("Can't read header", "err", readErr)
		return 1
	}

	printHeader(os.Stdout, h, fileSize)

	if *samples > 0 {
		var dumpErr = dumpSamples(os.Stdout, r, h, *samples, *swapped)
		if dumpErr != nil {
			logger.Error("Can't read samples", "err", dumpErr)
			return 1
		}
	}

	if *spectrum {
		var series, sumErr = BandSum(r, h, *swapped, MAX_SPECTRUM_SAMPLES)
		if sumErr != nil {
			logger.Error("Can't read samples", "err", sumErr)
			return 1
		}

		var peak, peakErr = StrongestPeriod(series, h.Tsamp)
		if peakErr != nil {
			logger.Error("No spectrum", "err", peakErr)
			return 1
		}

		printPeak(os.Stdout, peak)
	}

	return 0
}

func printHeader(w io.Writer, h *Header, fileSize int64) {
	fmt.Fprintf(w, "Source name             : %s\n", h.SourceName)
	fmt.Fprintf(w, "Machine id              : %d\n", h.MachineID)
	fmt.Fprintf(w, "Telescope id            : %d\n", h.TelescopeID)
	fmt.Fprintf(w, "Data type               : %d\n", h.DataType)

	if h.HasRefDM {
		fmt.Fprintf(w, "Reference DM (pc/cc)    : %.3f\n", h.RefDM)
	}

	fmt.Fprintf(w, "Frequency of channel 1  : %f MHz\n", h.Fch1)
	fmt.Fprintf(w, "Channel bandwidth       : %f MHz\n", h.Foff)
	fmt.Fprintf(w, "Number of channels      : %d\n", h.Nchans)
	fmt.Fprintf(w, "Number of bits          : %d\n", h.Nbits)
	fmt.Fprintf(w, "Time stamp (MJD)        : %.12f\n", h.Tstart)
	fmt.Fprintf(w, "Sample time (us)        : %.5f\n", h.Tsamp*1.0e6)
	fmt.Fprintf(w, "Number of IFs           : %d\n", h.Nifs)
	fmt.Fprintf(w, "Header size (bytes)     : %d\n", h.Size)

	if fileSize >= 0 && h.BytesPerSample() > 0 {
		var nsamples = (fileSize - int64(h.Size)) / int64(h.BytesPerSample())
		fmt.Fprintf(w, "Number of samples       : %d\n", nsamples)
		fmt.Fprintf(w, "Observation length (s)  : %.3f\n", float64(nsamples)*h.Tsamp)
	}
}

func printPeak(w io.Writer, peak SpectrumPeak) {
	fmt.Fprintf(w, "Samples in spectrum     : %d\n", peak.Samples)
	fmt.Fprintf(w, "Strongest frequency (Hz): %.6f\n", peak.Freq)
	fmt.Fprintf(w, "Strongest period (ms)   : %.6f\n", peak.Period*1000.0)
}

// dumpSamples prints n time samples, one line per IF.  Below 32 bits the
// values are mapped back through the default clipping window, so they
// are only comparable within a file.
func dumpSamples(w io.Writer, r io.Reader, h *Header, n int, swapped bool) error {
	var nifs = max(h.Nifs, 1)

	var packer, packerErr = NewPacker(h.Nbits, DEFAULT_CLIP_MIN, DEFAULT_CLIP_MAX, swapped)
	if packerErr != nil {
		return packerErr
	}

	var count = n * nifs * h.Nchans
	var raw = make([]byte, PackedSize(count, h.Nbits))

	var got, readErr = io.ReadFull(r, raw)
	if readErr != nil && !errors.Is(readErr, io.ErrUnexpectedEOF) && !errors.Is(readErr, io.EOF) {
		return readErr
	}

	// Only whole samples.
	count = min(count, got*8/h.Nbits)

	var values, unpackErr = packer.Unpack(raw[:got], count)
	if unpackErr != nil {
		return unpackErr
	}

	for s := 0; s*nifs*h.Nchans < len(values); s++ {
		for i := range nifs {
			var start = (s*nifs + i) * h.Nchans
			if start >= len(values) {
				break
			}

			fmt.Fprintf(w, "%d %d", s, i)

			for _, v := range values[start:min(start+h.Nchans, len(values))] {
				fmt.Fprintf(w, " %g", v)
			}

			fmt.Fprintf(w, "\n")
		}
	}

	return nil
}
