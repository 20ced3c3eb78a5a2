package fake

/*------------------------------------------------------------------
 *
 * Purpose:	Generate blocks of filterbank samples: white noise,
 *		plus red noise baseline, plus pulses where the pulsar
 *		is on.
 *
 * Description:	A block is nsblk samples.  Each sample holds nifs
 *		IFs, each IF holds nchans channels, channel 0 first.
 *		So cell (s, i, c) is at s*nifs*nchans + i*nchans + c.
 *
 *		Simulated time advances by tsamp once per sample,
 *		before the sample is generated.
 *
 *------------------------------------------------------------------*/

import "math"

type Synthesizer struct {
	cfg      *RunConfig
	delays   DispersionTable
	noise    *NoiseSource
	red      *RedNoise
	period   *PeriodEngine
	rising   float64
	trailing float64
	on       []float64 // Pulse contribution per channel for the current sample.
	elapsed  float64
}

func NewSynthesizer(cfg *RunConfig) *Synthesizer {
	var s = &Synthesizer{
		cfg:    cfg,
		delays: NewDispersionTable(cfg.Fch1, cfg.Foff, cfg.DM, cfg.Nchans),
		noise:  NewNoiseSource(cfg.Seed, STREAM_SYNTH),
		red:    NewRedNoise(cfg.RedStep, cfg.ClipMin/2, cfg.ClipMax/2),
		period: NewPeriodEngine(cfg.P0, cfg.Pdot, cfg.Accn),
		on:     make([]float64, cfg.Nchans),
	}

	s.rising, s.trailing = OnPulseWindow(cfg.DutyCycle)

	return s
}

// Elapsed is the simulated time at the end of the last generated sample.
func (s *Synthesizer) Elapsed() float64 {
	return s.elapsed
}

func (s *Synthesizer) Delays() DispersionTable {
	return s.delays
}

// Period is the current, possibly evolved, pulsar period.
func (s *Synthesizer) Period() float64 {
	return s.period.Period()
}

// RedNoiseSum is the baseline offset applied to the last sample.
func (s *Synthesizer) RedNoiseSum() float64 {
	return s.red.Sum()
}

/*------------------------------------------------------------------
 *
 * Name:	Fill
 *
 * Purpose:	Generate the next block.
 *
 * Inputs:	block	- Must hold exactly BlockSize() values.
 *			  Every value is overwritten.
 *
 *------------------------------------------------------------------*/

func (s *Synthesizer) Fill(block []float32) {
	var nchans = s.cfg.Nchans
	var ic = s.cfg.Nifs * nchans

	if len(block) != s.cfg.BlockSize() {
		panic("Synthesizer.Fill: block size does not match configuration")
	}

	for smp := range s.cfg.Nsblk {
		s.elapsed += s.cfg.Tsamp

		if s.cfg.EvenOdd {
			for i := range s.cfg.Nifs {
				var row = block[smp*ic+i*nchans : smp*ic+(i+1)*nchans]
				for c := range row {
					row[c] = float32(c % 2)
				}
			}

			continue
		}

		var baseline = s.red.Sum()
		if s.red.Enabled() {
			baseline = s.red.Next(s.noise.Gauss())
		}

		s.pulses()

		for i := range s.cfg.Nifs {
			var row = block[smp*ic+i*nchans : smp*ic+(i+1)*nchans]
			for c := range row {
				row[c] = float32(s.noise.Gauss() + s.on[c] + baseline)
			}
		}
	}
}

// pulses works out which channels have the pulse on at the current time.
// Same for every IF, so done once per sample.
func (s *Synthesizer) pulses() {
	var t = s.elapsed
	var halfWidth = s.cfg.DutyCycle / 2.0

	if s.period.Active() {
		// Channel 0 has no delay, so it decides when a new pulse starts.
		s.period.Observe(t)
	}

	for c := range s.on {
		var delayed = t + s.delays[c]
		var on = false

		if s.cfg.TestPulse && math.Abs(delayed-s.cfg.TPulse) <= halfWidth {
			on = true
		}

		if s.period.Active() {
			var phase = s.period.Phase(delayed)
			if phase >= s.rising && phase <= s.trailing {
				on = true
			}
		}

		s.on[c] = IfThenElse(on, s.cfg.Amplitude, 0)
	}
}
