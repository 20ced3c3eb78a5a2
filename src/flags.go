package fake

import (
	"fmt"

	"github.com/spf13/pflag"
)

// bindParams registers a flag for every user parameter, writing into p.
// Defaults shown in --help are whatever p holds at the time.
func bindParams(fs *pflag.FlagSet, p *Params) {
	fs.IntVar(&p.Nchans, "nchans", p.Nchans, "Number of frequency channels.")
	fs.IntVar(&p.Nifs, "nifs", p.Nifs, "Number of IFs (polarisations).")
	fs.IntVar(&p.Nsblk, "nsblk", p.Nsblk, "Samples per block.")
	fs.IntVar(&p.Nbeams, "nbeams", p.Nbeams, "Number of beams.  Every beam gets an identical copy of each block.")
	fs.IntVar(&p.Nbits, "nbits", p.Nbits, "Bits per sample: 1, 2, 4, 8, 16 or 32.")

	fs.Float64Var(&p.PeriodMs, "period", p.PeriodMs, "Pulsar period in ms.  Negative picks a random period from 1 ms up to |period| ms, 0 for no pulsar.")
	fs.Float64Var(&p.DM, "dm", p.DM, "Dispersion measure in pc/cc.  Negative picks a random DM from 1 to 1000.")
	fs.Float64Var(&p.Pdot, "pdot", p.Pdot, "Period derivative, s/s.")
	fs.Float64Var(&p.Accn, "accn", p.Accn, "Line of sight acceleration, m/s/s.")
	fs.Float64Var(&p.SNRPeak, "snrpeak", p.SNRPeak, "Signal to noise of a single pulse.")
	fs.Float64Var(&p.WidthMs, "width", p.WidthMs, "Intrinsic pulse width in ms.")
	fs.Float64Var(&p.RedNoise, "rednoise", p.RedNoise, "Red noise level, 0 for none.")
	fs.Float64Var(&p.TPulse, "tpulse", p.TPulse, "Time of a single test pulse in s.  Default is none, give 0 for a pulse at the start.")

	fs.Float64Var(&p.TsampUs, "tsamp", p.TsampUs, "Sampling time in us.")
	fs.Float64Var(&p.Tstart, "tstart", p.Tstart, "Start time, MJD.")
	fs.Float64Var(&p.Tobs, "tobs", p.Tobs, "Observation length in s.")
	fs.Float64Var(&p.Fch1, "fch1", p.Fch1, "Frequency of channel 1 in MHz.  This is the highest frequency.")
	fs.Float64Var(&p.Foff, "foff", p.Foff, "Channel bandwidth in MHz.  Always treated as negative.")

	fs.Int64Var(&p.Seed, "seed", p.Seed, "Random number seed, -1 to take one from the clock.")

	fs.BoolVar(&p.SwapOut, "swapout", p.SwapOut, "Byte swap 16 and 32 bit output.")
	fs.BoolVar(&p.NoSmear, "nosmear", p.NoSmear, "Don't add DM smearing to the pulse width.")
	fs.BoolVar(&p.Headerless, "headerless", p.Headerless, "Write samples only, no header.")
	fs.BoolVar(&p.EvenOdd, "evenodd", p.EvenOdd, "Channel alignment test: even channels 0, odd channels 1.  Implies 32 bits, DM 0, no smearing.")

	fs.IntVar(&p.MachineID, "machine-id", p.MachineID, "Machine id for the header.")
	fs.IntVar(&p.TelescopeID, "telescope-id", p.TelescopeID, "Telescope id for the header.")

	fs.StringVarP(&p.Output, "output", "o", p.Output, "Output file, - for stdout.")
	fs.StringVar(&p.Monitor, "monitor", p.Monitor, "Monitor file for start and finish times, empty for none.")
	fs.StringVar(&p.MonitorTimeFormat, "monitor-time-format", p.MonitorTimeFormat, "strftime format for monitor file timestamps.")
}

/*------------------------------------------------------------------
 *
 * Name:	mergeFlags
 *
 * Purpose:	Put command line settings on top of a config file.
 *
 * Inputs:	base	- Parameters from the config file.
 *		fs	- Parsed command line, bound with bindParams.
 *
 * Returns:	base, with every flag the user actually gave applied.
 *		Flags left at their default don't touch the file values.
 *
 *------------------------------------------------------------------*/

func mergeFlags(base Params, fs *pflag.FlagSet) (Params, error) {
	var overlay = pflag.NewFlagSet("overlay", pflag.ContinueOnError)
	bindParams(overlay, &base)

	var mergeErr error

	fs.Visit(func(f *pflag.Flag) {
		if mergeErr != nil || overlay.Lookup(f.Name) == nil {
			return
		}

		var setErr = overlay.Set(f.Name, f.Value.String())
		if setErr != nil {
			mergeErr = fmt.Errorf("applying --%s: %w", f.Name, setErr)
		}
	})

	return base, mergeErr
}
