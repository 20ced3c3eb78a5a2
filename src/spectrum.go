package fake

/*------------------------------------------------------------------
 *
 * Purpose:	Quick look for a periodic signal in generated data.
 *
 * Description:	All IFs and channels of each time sample are added
 *		into one time series, with no dedispersion, and the
 *		strongest Fourier component is reported.  Good enough
 *		to confirm a file has a pulsar near the period named
 *		in its header, when the DM is small enough that the
 *		band sum doesn't wash it out.
 *
 *------------------------------------------------------------------*/

import (
	"errors"
	"fmt"
	"io"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Longest time series we will transform.
const MAX_SPECTRUM_SAMPLES = 1 << 22

var ErrNoSignal = errors.New("not enough data for a spectrum")

type SpectrumPeak struct {
	Bin     int
	Freq    float64 // Hz
	Period  float64 // Seconds.
	Power   float64
	Samples int // Length of the time series transformed.
}

// BandSum reads whole time samples from r until EOF, or max samples,
// and returns the sum over all IFs and channels for each.
func BandSum(r io.Reader, h *Header, swapped bool, maxSamples int) ([]float64, error) {
	var packer, packerErr = NewPacker(h.Nbits, DEFAULT_CLIP_MIN, DEFAULT_CLIP_MAX, swapped)
	if packerErr != nil {
		return nil, packerErr
	}

	var width = h.Nchans * max(h.Nifs, 1)
	var perRead = 1024

	var raw = make([]byte, PackedSize(perRead*width, h.Nbits))
	var series []float64

	for len(series) < maxSamples {
		var got, readErr = io.ReadFull(r, raw)
		var whole = got * 8 / h.Nbits / width

		if whole > 0 {
			var values, unpackErr = packer.Unpack(raw[:got], whole*width)
			if unpackErr != nil {
				return nil, unpackErr
			}

			for s := range whole {
				var sum float64
				for _, v := range values[s*width : (s+1)*width] {
					sum += v
				}

				series = append(series, sum)
			}
		}

		if errors.Is(readErr, io.EOF) || errors.Is(readErr, io.ErrUnexpectedEOF) {
			break
		}

		if readErr != nil {
			return nil, readErr
		}
	}

	return series[:min(len(series), maxSamples)], nil
}

/*------------------------------------------------------------------
 *
 * Name:	StrongestPeriod
 *
 * Purpose:	Find the largest non-zero Fourier component.
 *
 * Inputs:	series	- Evenly sampled time series.
 *		tsamp	- Sample spacing, seconds.
 *
 * Returns:	The peak.  Period resolution is limited by the
 *		length of the series, P*P/T for length T.
 *
 *------------------------------------------------------------------*/

func StrongestPeriod(series []float64, tsamp float64) (SpectrumPeak, error) {
	if len(series) < 4 || tsamp <= 0 {
		return SpectrumPeak{}, fmt.Errorf("%w: %d samples", ErrNoSignal, len(series))
	}

	var mean float64
	for _, v := range series {
		mean += v
	}

	mean /= float64(len(series))

	var centred = make([]float64, len(series))
	for i, v := range series {
		centred[i] = v - mean
	}

	var fft = fourier.NewFFT(len(centred))
	var coeff = fft.Coefficients(nil, centred)

	var peak = SpectrumPeak{Samples: len(series)}

	for i := 1; i < len(coeff); i++ {
		var power = cmplx.Abs(coeff[i])
		power *= power

		if power > peak.Power {
			peak.Bin = i
			peak.Power = power
		}
	}

	if peak.Bin == 0 {
		return peak, fmt.Errorf("%w: flat time series", ErrNoSignal)
	}

	peak.Freq = fft.Freq(peak.Bin) / tsamp
	peak.Period = 1.0 / peak.Freq

	return peak, nil
}
