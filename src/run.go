package fake

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// Stats summarises a finished run.
type Stats struct {
	HeaderBytes int
	Blocks      int     // Distinct blocks generated.  Each is written Nbeams times.
	DataBytes   int64   // Sample bytes written, all beams.
	Elapsed     float64 // Simulated seconds.
	FinalPeriod float64
}

/*------------------------------------------------------------------
 *
 * Name:	Run
 *
 * Purpose:	Generate the whole observation.
 *
 * Inputs:	cfg	- Resolved configuration.
 *		w	- Where the header and samples go.
 *		mon	- Monitor file, may be nil.
 *
 * Description:	Header first unless suppressed, then one block at a time:
 *		generate, pack, write.  Stops after the block in which
 *		simulated time reaches the observation length, so there
 *		is always at least one block.
 *
 *		Beams are just copies.  Each block is written nbeams
 *		times, byte for byte the same.
 *
 *		If we stop early (error, or the user kills us) what is
 *		already written is a valid header plus whole blocks.
 *
 *------------------------------------------------------------------*/

func Run(cfg *RunConfig, w io.Writer, mon *Monitor) (Stats, error) {
	var stats Stats

	var packer, packerErr = NewPacker(cfg.Nbits, cfg.ClipMin, cfg.ClipMax, cfg.SwapOut)
	if packerErr != nil {
		return stats, packerErr
	}

	var out = bufio.NewWriter(w)

	mon.Update("starting")

	logger.Info("Generating",
		"source", cfg.SourceName(),
		"nchans", cfg.Nchans,
		"nifs", cfg.Nifs,
		"nbits", cfg.Nbits,
		"tobs", cfg.Tobs,
		"seed", cfg.Seed)
	logger.Debug("Derived", "duty_cycle", cfg.DutyCycle, "amplitude", cfg.Amplitude,
		"clip_min", cfg.ClipMin, "clip_max", cfg.ClipMax, "p0", cfg.P0)

	if !cfg.Headerless {
		var header bytes.Buffer

		var headerErr = WriteHeader(&header, cfg)
		if headerErr != nil {
			return stats, headerErr
		}

		var n, writeErr = out.Write(header.Bytes())
		stats.HeaderBytes = n

		if writeErr != nil {
			return stats, fmt.Errorf("writing header: %w", writeErr)
		}
	}

	var synth = NewSynthesizer(cfg)
	var block = make([]float32, cfg.BlockSize())
	var packed = make([]byte, 0, cfg.PackedBlockBytes())

	for {
		synth.Fill(block)
		packed = packer.Pack(packed[:0], block)

		for range cfg.Nbeams {
			var n, writeErr = out.Write(packed)
			stats.DataBytes += int64(n)

			if writeErr != nil {
				return stats, fmt.Errorf("writing block %d: %w", stats.Blocks, writeErr)
			}
		}

		stats.Blocks++

		if stats.Blocks%1000 == 0 {
			logger.Debug("Progress", "blocks", stats.Blocks, "elapsed", synth.Elapsed())
		}

		if synth.Elapsed() >= cfg.Tobs {
			break
		}
	}

	var flushErr = out.Flush()
	if flushErr != nil {
		return stats, fmt.Errorf("flushing output: %w", flushErr)
	}

	stats.Elapsed = synth.Elapsed()
	stats.FinalPeriod = synth.Period()

	mon.Update("finished")

	logger.Info("Finished", "blocks", stats.Blocks, "bytes", int64(stats.HeaderBytes)+stats.DataBytes, "elapsed", stats.Elapsed)

	return stats, nil
}
