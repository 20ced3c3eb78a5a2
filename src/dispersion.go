package fake

/*------------------------------------------------------------------
 *
 * Purpose:	Cold plasma dispersion.  Lower frequencies arrive later,
 *		so each channel sees the pulse at a different time.
 *
 * Description:	Channel 0 is always the highest frequency and is the
 *		reference.  Delays for the other channels are negative
 *		offsets added to the simulated time, which is the same
 *		thing as saying the pulse arrives later there.
 *
 *------------------------------------------------------------------*/

import "math"

// Dispersion constant in seconds for frequencies in MHz and DM in pc/cc.
const DM_CONSTANT = 4148.741601

// Small channel width approximation: 8.3 microseconds * DM * bandwidth(MHz) / f(GHz)^3,
// rearranged for MHz throughout.
const DM_SMEAR_CONSTANT = 8.3e3

// DispersionTable holds one delay per channel, in seconds.  Index 0 is the reference channel.
type DispersionTable []float64

/*------------------------------------------------------------------
 *
 * Name:	DMDelay
 *
 * Purpose:	Dispersion delay between two frequencies.
 *
 * Inputs:	f1	- Reference frequency, MHz.
 *		f2	- Other frequency, MHz.
 *		dm	- Dispersion measure, pc/cc.
 *
 * Returns:	Seconds.  Zero when f1 == f2, negative when f2 < f1.
 *
 *------------------------------------------------------------------*/

func DMDelay(f1 float64, f2 float64, dm float64) float64 {
	return DM_CONSTANT * (1.0/(f1*f1) - 1.0/(f2*f2)) * dm
}

// NewDispersionTable computes the per channel delays once, for the whole run.
func NewDispersionTable(fch1 float64, foff float64, dm float64, nchans int) DispersionTable {
	var table = make(DispersionTable, nchans)

	for c := range nchans {
		if c == 0 {
			continue // Reference channel, exactly zero.
		}

		table[c] = DMDelay(fch1, fch1+float64(c)*foff, dm)
	}

	return table
}

// SmearingTime is the dispersive smearing within a single channel, in seconds.
func SmearingTime(dm float64, foff float64, fch1 float64) float64 {
	return math.Abs(DM_SMEAR_CONSTANT * dm * foff / (fch1 * fch1 * fch1))
}

// DutyCycle adds smearing, sampling time and intrinsic width in quadrature.
func DutyCycle(tdm float64, tsamp float64, width float64) float64 {
	return math.Sqrt(tdm*tdm + tsamp*tsamp + width*width)
}

// OnPulseWindow brackets phase 0.5, where a correctly dedispersed pulse lands.
func OnPulseWindow(dc float64) (rising float64, trailing float64) {
	return 0.5 - dc/2.0, 0.5 + dc/2.0
}
