package fake

/*------------------------------------------------------------------
 *
 * Name:	fake
 *
 * Purpose:	Generate filterbank data containing a fake pulsar
 *		buried in noise, for exercising search and display
 *		software without using any telescope time.
 *
 * Description:	Output is a tagged header followed by blocks of
 *		samples, to stdout or a file.
 *
 * Examples:	Defaults, random period and DM, 4 bits:
 *
 *			fake -o x.fil
 *
 *		A bright 33 ms pulsar at DM 56.8, 8 bit samples:
 *
 *			fake --period 33.4 --dm 56.8 --snrpeak 20 --nbits 8 -o crab.fil
 *
 *		Spinning down, with some red noise, settings from a file:
 *
 *			fake --config survey.yaml --pdot 1e-12 --rednoise 5 -o sd.fil
 *
 *		Channel alignment check:
 *
 *			fake --evenodd --tobs 1 -o evenodd.fil
 *
 *------------------------------------------------------------------*/

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

var ErrTerminalOutput = errors.New("refusing to write binary data to a terminal, use -o or redirect stdout")

func FakeMain() {
	os.Exit(fakeMain())
}

func fakeMain() int {
	var p = DefaultParams()
	bindParams(pflag.CommandLine, &p)

	var configFile = pflag.StringP("config", "c", "", "YAML file of parameters.  Command line flags take priority.")
	var dumpConfig = pflag.Bool("dump-config", false, "Print the resolved configuration as YAML and exit.")
	var verbose = pflag.BoolP("verbose", "v", false, "Debug logging.")
	var version = pflag.BoolP("version", "V", false, "Print version and exit.")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - Generate fake pulsar filterbank data.\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Data are written to stdout unless -o is given.  Run with any\n")
		fmt.Fprintf(os.Stderr, "option (e.g. --tobs 10) to generate with the defaults.\n")
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Example:  %s --period 33.4 --dm 56.8 --snrpeak 20 --nbits 8 -o crab.fil\n", os.Args[0])
	}

	// No arguments at all just explains itself.
	if len(os.Args) < 2 {
		pflag.Usage()
		return 0
	}

	// !!! PARSE !!!
	pflag.Parse()

	if *help {
		pflag.Usage()
		return 0
	}

	if *version {
		printVersion()
		return 0
	}

	SetVerbose(*verbose)

	if len(pflag.Args()) > 0 {
		logger.Error("Unexpected arguments", "args", pflag.Args())
		pflag.Usage()

		return 1
	}

	if *configFile != "" {
		var fromFile, loadErr = LoadParamsFile(*configFile)
		if loadErr != nil {
			logger.Error("Can't use config file", "err", loadErr)
			return 1
		}

		var mergeErr error

		p, mergeErr = mergeFlags(fromFile, pflag.CommandLine)
		if mergeErr != nil {
			logger.Error("Can't combine config file and flags", "err", mergeErr)
			return 1
		}
	}

	var cfg, resolveErr = Resolve(p, time.Now)
	if resolveErr != nil {
		logger.Error("Bad configuration", "err", resolveErr)
		return 1
	}

	if *dumpConfig {
		var data, marshalErr = yaml.Marshal(cfg)
		if marshalErr != nil {
			logger.Error("Can't encode configuration", "err", marshalErr)
			return 1
		}

		os.Stdout.Write(data) //nolint:errcheck,gosec

		return 0
	}

	var out, closeOut, openErr = openOutput(p.Output)
	if openErr != nil {
		logger.Error("Can't open output", "output", p.Output, "err", openErr)
		return 1
	}

	var mon = OpenMonitor(p.Monitor, p.MonitorTimeFormat)
	defer mon.Close()

	var _, runErr = Run(cfg, out, mon)

	var closeErr = closeOut()

	if runErr != nil {
		logger.Error("Generation failed", "err", runErr)
		return 1
	}

	if closeErr != nil {
		logger.Error("Can't close output", "output", p.Output, "err", closeErr)
		return 1
	}

	return 0
}

// openOutput returns where the data go and how to finish with it.
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "-" || path == "" {
		var fd = os.Stdout.Fd()
		if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
			return nil, nil, ErrTerminalOutput
		}

		return os.Stdout, func() error { return nil }, nil
	}

	var f, createErr = os.Create(path) //nolint:gosec // We expect to write to a user-supplied file from CLI
	if createErr != nil {
		return nil, nil, createErr
	}

	return f, f.Close, nil
}
