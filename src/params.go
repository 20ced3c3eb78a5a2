package fake

/*------------------------------------------------------------------
 *
 * Purpose:	Everything the user can ask for, in the units they
 *		ask for it.  Nothing here has been checked or
 *		resolved yet; see Resolve for that.
 *
 * Description:	Values come from, in increasing priority:
 *
 *			built in defaults
 *			a YAML file given with --config
 *			command line flags
 *
 *------------------------------------------------------------------*/

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type Params struct {
	Nchans int `yaml:"nchans"`
	Nifs   int `yaml:"nifs"`
	Nsblk  int `yaml:"nsblk"`  // Samples per block.
	Nbeams int `yaml:"nbeams"` // Identical copies of each block.
	Nbits  int `yaml:"nbits"`

	PeriodMs float64 `yaml:"period_ms"` // Negative means random, 1 ms up to |value| ms.  Zero disables the pulsar.
	DM       float64 `yaml:"dm"`        // Negative means random.
	Pdot     float64 `yaml:"pdot"`
	Accn     float64 `yaml:"accn"`
	SNRPeak  float64 `yaml:"snrpeak"`
	WidthMs  float64 `yaml:"width_ms"`
	RedNoise float64 `yaml:"rednoise"`
	TPulse   float64 `yaml:"tpulse"` // Single test pulse time, seconds.  Negative for none.

	TsampUs float64 `yaml:"tsamp_us"`
	Tstart  float64 `yaml:"tstart"` // MJD
	Tobs    float64 `yaml:"tobs"`   // Seconds.
	Fch1    float64 `yaml:"fch1"`   // MHz
	Foff    float64 `yaml:"foff"`   // MHz

	Seed int64 `yaml:"seed"` // -1 means take it from the clock.

	SwapOut    bool `yaml:"swapout"`
	NoSmear    bool `yaml:"nosmear"`
	Headerless bool `yaml:"headerless"`
	EvenOdd    bool `yaml:"evenodd"`

	MachineID   int `yaml:"machine_id"`
	TelescopeID int `yaml:"telescope_id"`

	Output            string `yaml:"output"`  // "-" for stdout.
	Monitor           string `yaml:"monitor"` // Empty disables the monitor file.
	MonitorTimeFormat string `yaml:"monitor_time_format"`
}

func DefaultParams() Params {
	return Params{
		Nchans:            128,
		Nifs:              1,
		Nsblk:             512,
		Nbeams:            1,
		Nbits:             4,
		PeriodMs:          -1000.0,
		DM:                -1.0,
		SNRPeak:           1.0,
		TPulse:            -1.0,
		WidthMs:           40.0,
		TsampUs:           80.0,
		Tstart:            50000.0,
		Tobs:              10.0,
		Fch1:              433.968,
		Foff:              -0.062,
		Seed:              -1,
		MachineID:         10,
		TelescopeID:       4,
		Output:            "-",
		Monitor:           "fake.monitor",
		MonitorTimeFormat: "%Y-%m-%d %H:%M:%S",
	}
}

// ApplyEvenOdd sets up the channel alignment diagnostic.  Data is written
// as floats, with no dispersion, so that the pattern survives untouched.
func (p *Params) ApplyEvenOdd() {
	if !p.EvenOdd {
		return
	}

	p.Nbits = 32
	p.NoSmear = true
	p.DM = 0
}

// DecodeParams overlays YAML onto p.  Unknown keys are an error, mostly to catch typos.
func DecodeParams(r io.Reader, p *Params) error {
	var decoder = yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var err = decoder.Decode(p)
	if errors.Is(err, io.EOF) {
		return nil // Empty file, keep whatever we had.
	}

	return err
}

// LoadParamsFile reads a YAML configuration file on top of the defaults.
func LoadParamsFile(path string) (Params, error) {
	var p = DefaultParams()

	var data, readErr = os.ReadFile(path) //nolint:gosec // User supplied config path from CLI
	if readErr != nil {
		return p, fmt.Errorf("reading config %s: %w", path, readErr)
	}

	var decodeErr = DecodeParams(bytes.NewReader(data), &p)
	if decodeErr != nil {
		return p, fmt.Errorf("parsing config %s: %w", path, decodeErr)
	}

	return p, nil
}
