package fake

import "math"

const SPEED_OF_LIGHT = 299792458.0 // m/s

// AccelerationBasePeriod moves the base period so that the observed period
// matches the requested one half way through the observation.
func AccelerationBasePeriod(period float64, accn float64, tobs float64) float64 {
	if accn == 0 {
		return period
	}

	return period / (1.0 + accn*tobs/2.0/SPEED_OF_LIGHT)
}

/*------------------------------------------------------------------
 *
 * Name:	PeriodEngine
 *
 * Purpose:	Track the apparent pulsar period as it evolves.
 *
 * Description:	The period is only re-evaluated when the phase wraps
 *		from near 1 back to near 0, i.e. once per pulse.
 *		Spin down (pdot) and acceleration (accn) are checked
 *		independently, in that order, so if both are set the
 *		acceleration result is the one that sticks.
 *
 *------------------------------------------------------------------*/

type PeriodEngine struct {
	p0   float64 // Base period, seconds.
	p    float64 // Current period, seconds.
	plst float64 // Phase seen by the previous Observe.
	pdot float64 // s/s
	accn float64 // m/s/s
}

func NewPeriodEngine(p0 float64, pdot float64, accn float64) *PeriodEngine {
	return &PeriodEngine{p0: p0, p: p0, pdot: pdot, accn: accn}
}

// Active is false when no periodic signal is being injected.
func (e *PeriodEngine) Active() bool {
	return e.p0 > 0
}

func (e *PeriodEngine) Period() float64 {
	return e.p
}

// Phase of time t with the current period, in [0, 1).
func (e *PeriodEngine) Phase(t float64) float64 {
	var phase = t / e.p
	phase -= math.Floor(phase)

	// Rounding can land exactly on 1 for tiny negative inputs.
	if phase >= 1.0 {
		phase = 0
	}

	return phase
}

// Observe records the reference phase at time t and updates the period
// if that phase wrapped around since the last call.  Returns the phase.
func (e *PeriodEngine) Observe(t float64) float64 {
	var phase = e.Phase(t)

	if e.plst > phase {
		if e.pdot != 0 {
			e.p = e.p0 + e.pdot*t
		}

		if e.accn != 0 {
			e.p = e.p0 * (1.0 + e.accn*t/SPEED_OF_LIGHT)
		}
	}

	e.plst = phase

	return phase
}
