package fake

/*------------------------------------------------------------------
 *
 * Purpose:	Turn user Params into the fully resolved, checked
 *		RunConfig that every other part of the generator reads.
 *
 * Description:	All the "pick something random if not set" and
 *		"scale this by that" happens exactly once, here.
 *		After Resolve returns, nothing modifies the RunConfig.
 *		The header writer and the synthesizer both read it.
 *
 *------------------------------------------------------------------*/

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrBadConfig       = errors.New("invalid configuration")
	ErrUnsupportedBits = errors.New("unsupported number of bits per sample")
)

// Clipping window before any adjustment for strong pulses.
const (
	DEFAULT_CLIP_MIN = -4.0
	DEFAULT_CLIP_MAX = 4.0
)

// Random DM range, pc/cc, when none was given.
const (
	RANDOM_DM_MIN = 1.0
	RANDOM_DM_MAX = 1.0e3
)

// Shortest random period, seconds.
const RANDOM_PERIOD_MIN = 1.0e-3

// Largest block we are prepared to allocate, in samples.  Checked up front
// rather than finding out when the allocation fails.
const MAX_BLOCK_SAMPLES = 1 << 28

const EVEN_ODD_SOURCE_NAME = "Even-Odd channel test"

type RunConfig struct {
	Nchans int `yaml:"nchans"`
	Nifs   int `yaml:"nifs"`
	Nsblk  int `yaml:"nsblk"`
	Nbeams int `yaml:"nbeams"`
	Nbits  int `yaml:"nbits"`

	Period float64 `yaml:"period"` // Requested period, seconds.  0 when no pulsar.
	P0     float64 `yaml:"p0"`     // Base period after acceleration compensation.
	Pdot   float64 `yaml:"pdot"`
	Accn   float64 `yaml:"accn"`
	DM     float64 `yaml:"dm"`

	Tsamp  float64 `yaml:"tsamp"` // Seconds.
	Tstart float64 `yaml:"tstart"`
	Tobs   float64 `yaml:"tobs"`
	Fch1   float64 `yaml:"fch1"`
	Foff   float64 `yaml:"foff"` // Always negative or zero.

	SmearTime float64 `yaml:"smear_time"` // 0 when smearing is off.
	DutyCycle float64 `yaml:"duty_cycle"`
	SNRPeak   float64 `yaml:"snrpeak"`
	Amplitude float64 `yaml:"amplitude"` // Per cell pulse height after scaling.
	ClipMin   float64 `yaml:"clip_min"`
	ClipMax   float64 `yaml:"clip_max"`
	RedStep   float64 `yaml:"red_step"`
	TPulse    float64 `yaml:"tpulse"`
	TestPulse bool    `yaml:"test_pulse"`

	Seed int64 `yaml:"seed"`

	SwapOut    bool `yaml:"swapout"`
	Smear      bool `yaml:"smear"`
	Headerless bool `yaml:"headerless"`
	EvenOdd    bool `yaml:"evenodd"`

	MachineID   int `yaml:"machine_id"`
	TelescopeID int `yaml:"telescope_id"`
}

// SupportedBits reports whether nbits is one of the depths we can pack.
func SupportedBits(nbits int) bool {
	switch nbits {
	case 1, 2, 4, 8, 16, 32:
		return true
	default:
		return false
	}
}

/*------------------------------------------------------------------
 *
 * Name:	Resolve
 *
 * Purpose:	Check the parameters and work out everything derived
 *		from them.
 *
 * Inputs:	p	- User parameters.
 *		now	- Clock, used only when no seed was given.
 *
 * Returns:	Resolved configuration, or an error wrapping ErrBadConfig
 *		or ErrUnsupportedBits.  No output has been produced yet
 *		so there is nothing to clean up on error.
 *
 *------------------------------------------------------------------*/

func Resolve(p Params, now func() time.Time) (*RunConfig, error) {
	p.ApplyEvenOdd()

	var checkErr = checkParams(p)
	if checkErr != nil {
		return nil, checkErr
	}

	var cfg = &RunConfig{
		Nchans:      p.Nchans,
		Nifs:        p.Nifs,
		Nsblk:       p.Nsblk,
		Nbeams:      p.Nbeams,
		Nbits:       p.Nbits,
		Pdot:        p.Pdot,
		Accn:        p.Accn,
		DM:          p.DM,
		Tsamp:       p.TsampUs * 1.0e-6,
		Tstart:      p.Tstart,
		Tobs:        p.Tobs,
		Fch1:        p.Fch1,
		Foff:        -math.Abs(p.Foff),
		SNRPeak:     p.SNRPeak,
		TPulse:      p.TPulse,
		TestPulse:   p.TPulse >= 0,
		Seed:        p.Seed,
		SwapOut:     p.SwapOut,
		Smear:       !p.NoSmear,
		Headerless:  p.Headerless,
		EvenOdd:     p.EvenOdd,
		MachineID:   p.MachineID,
		TelescopeID: p.TelescopeID,
	}

	// Get seed from the clock if not set.
	if cfg.Seed == -1 {
		cfg.Seed = now().UnixNano()
		logger.Debug("Seed taken from clock", "seed", cfg.Seed)
	}

	var draws = NewNoiseSource(cfg.Seed, STREAM_RESOLVE)

	// Random period between 1 ms and |period| if not set.
	var periodMs = p.PeriodMs
	if periodMs < 0 {
		periodMs = draws.Flat(RANDOM_PERIOD_MIN*1.0e3, -periodMs)
	}

	cfg.Period = periodMs * 1.0e-3

	// Random DM if not set.
	if cfg.DM < 0 {
		cfg.DM = draws.Flat(RANDOM_DM_MIN, RANDOM_DM_MAX)
	}

	cfg.DutyCycle = p.WidthMs / 1000.0

	if cfg.Smear && cfg.Period > 0 {
		cfg.SmearTime = SmearingTime(cfg.DM, cfg.Foff, cfg.Fch1)
		cfg.DutyCycle = DutyCycle(cfg.SmearTime, cfg.Tsamp, cfg.DutyCycle)
	}

	if !(cfg.DutyCycle > 0 && cfg.DutyCycle < 1) {
		return nil, fmt.Errorf("%w: duty cycle %g must be between 0 and 1, check --width, --dm and --tsamp", ErrBadConfig, cfg.DutyCycle)
	}

	// Single pulse S/N is spread over all channels and all samples in the pulse.
	cfg.Amplitude = cfg.SNRPeak / math.Sqrt(float64(cfg.Nchans))
	cfg.Amplitude /= math.Sqrt(cfg.DutyCycle / cfg.Tsamp)

	cfg.ClipMin = DEFAULT_CLIP_MIN
	cfg.ClipMax = DEFAULT_CLIP_MAX

	if cfg.Amplitude > 1.0 {
		cfg.ClipMax *= cfg.Amplitude
	}

	cfg.RedStep = p.RedNoise * RED_NOISE_STEP_SCALE / math.Sqrt(float64(cfg.Nchans))

	cfg.P0 = AccelerationBasePeriod(cfg.Period, cfg.Accn, cfg.Tobs)

	if cfg.Pdot != 0 && cfg.Accn != 0 {
		logger.Warn("Both spin down and acceleration set, acceleration wins at each period update", "pdot", cfg.Pdot, "accn", cfg.Accn)
	}

	if (cfg.BlockSize()*cfg.Nbits)%8 != 0 {
		logger.Warn("Block does not fill a whole number of bytes, last byte of each block will be padded",
			"samples", cfg.BlockSize(), "nbits", cfg.Nbits)
	}

	return cfg, nil
}

func checkParams(p Params) error {
	if !SupportedBits(p.Nbits) {
		return fmt.Errorf("%w: fake cannot quantize data to %d bits", ErrUnsupportedBits, p.Nbits)
	}

	var checks = []struct {
		ok   bool
		what string
	}{
		{p.Nchans > 0, fmt.Sprintf("number of channels must be positive, not %d", p.Nchans)},
		{p.Nifs > 0, fmt.Sprintf("number of IFs must be positive, not %d", p.Nifs)},
		{p.Nsblk > 0, fmt.Sprintf("samples per block must be positive, not %d", p.Nsblk)},
		{p.Nbeams > 0, fmt.Sprintf("number of beams must be positive, not %d", p.Nbeams)},
		{p.TsampUs > 0, fmt.Sprintf("sampling time must be positive, not %g us", p.TsampUs)},
		{p.Tobs > 0, fmt.Sprintf("observation length must be positive, not %g s", p.Tobs)},
		{p.Fch1 > 0, fmt.Sprintf("first channel frequency must be positive, not %g MHz", p.Fch1)},
		{p.Fch1-float64(max(p.Nchans-1, 0))*math.Abs(p.Foff) > 0, "lowest channel frequency must be positive, check --fch1, --foff and --nchans"},
		{p.SNRPeak >= 0, fmt.Sprintf("peak S/N must not be negative, not %g", p.SNRPeak)},
		{p.RedNoise >= 0, fmt.Sprintf("red noise level must not be negative, not %g", p.RedNoise)},
	}

	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("%w: %s", ErrBadConfig, c.what)
		}
	}

	var blockSamples = int64(p.Nsblk) * int64(p.Nifs) * int64(p.Nchans)
	if blockSamples > MAX_BLOCK_SAMPLES {
		return fmt.Errorf("%w: block of %d samples is too big, reduce --nsblk, --nifs or --nchans (limit %d)",
			ErrBadConfig, blockSamples, MAX_BLOCK_SAMPLES)
	}

	return nil
}

// BlockSize is the number of float samples in one block.
func (c *RunConfig) BlockSize() int {
	return c.Nsblk * c.Nifs * c.Nchans
}

// PackedBlockBytes is how many bytes one block takes in the output.
func (c *RunConfig) PackedBlockBytes() int {
	return PackedSize(c.BlockSize(), c.Nbits)
}

// SourceName goes into the header so anyone reading the file knows what to look for.
func (c *RunConfig) SourceName() string {
	if c.EvenOdd {
		return EVEN_ODD_SOURCE_NAME
	}

	return fmt.Sprintf("P: %.12f ms, DM: %.3f", c.Period*1000.0, c.DM)
}

// DataType is the header discriminant: 1 for filterbank, 2 for a dedispersed time series.
func (c *RunConfig) DataType() int {
	if c.Nchans > 1 {
		return 1
	}

	return 2
}
