package fake

/*------------------------------------------------------------------
 *
 * Purpose:	Convert a block of float samples to the output bit depth.
 *
 * Description:	32 bits:	IEEE float, passed through.
 *		16 bits:	unsigned short.
 *		8 bits:		unsigned char.
 *		4, 2, 1 bits:	several samples per byte.
 *
 *		Everything below 32 bits is a linear map of [min, max]
 *		onto 0 .. 2^nbits - 1, rounded to nearest and clipped.
 *
 *		Sub-byte packing is least significant bits first:
 *		the first sample of each byte is in bits 0 .. nbits-1,
 *		the next one above it, and so on.  For 4 bits that
 *		means sample 0 is the low nibble, sample 1 the high.
 *		Readers depend on this, don't change it.
 *
 *		Multi-byte values are little endian unless swapped.
 *
 *------------------------------------------------------------------*/

import (
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

type Packer struct {
	nbits int
	min   float64
	max   float64
	step  float64 // Input units per output level.  0 for 32 bits.
	swap  bool
}

func NewPacker(nbits int, min float64, max float64, swap bool) (*Packer, error) {
	if !SupportedBits(nbits) {
		return nil, fmt.Errorf("%w: fake cannot quantize data to %d bits", ErrUnsupportedBits, nbits)
	}

	if !(max > min) {
		return nil, fmt.Errorf("%w: clipping window [%g, %g] is empty", ErrBadConfig, min, max)
	}

	var p = &Packer{nbits: nbits, min: min, max: max, swap: swap}

	if nbits < 32 {
		p.step = (max - min) / float64(p.Levels()-1)
	}

	return p, nil
}

// PackedSize is the number of bytes needed for n samples of nbits each.
func PackedSize(n int, nbits int) int {
	return (n*nbits + 7) / 8
}

func (p *Packer) Bits() int {
	return p.nbits
}

// Levels is the number of distinct output values, or 0 for float output.
func (p *Packer) Levels() int {
	if p.nbits >= 32 {
		return 0
	}

	return 1 << p.nbits
}

// Step is the size of one quantization level in input units.
func (p *Packer) Step() float64 {
	return p.step
}

func digitize[T constraints.Unsigned](v float64, lo float64, step float64, top T) T {
	var level = math.Round((v - lo) / step)

	if level <= 0 || math.IsNaN(level) {
		return 0
	}

	if level >= float64(top) {
		return top
	}

	return T(level)
}

// Quantize maps one value to its output level.  Not meaningful for 32 bits.
func (p *Packer) Quantize(v float32) uint16 {
	return digitize(float64(v), p.min, p.step, uint16(p.Levels()-1))
}

// Level maps an output level back to the middle of the input range it stands for.
func (p *Packer) Level(q uint16) float64 {
	return p.min + float64(q)*p.step
}

/*------------------------------------------------------------------
 *
 * Name:	Pack
 *
 * Purpose:	Quantize and pack one block.
 *
 * Inputs:	dst	- Packed bytes are appended here.  Pass dst[:0]
 *			  of a reused buffer to avoid allocating.
 *		block	- Float samples, in output order.
 *
 * Returns:	dst with exactly PackedSize(len(block), nbits) bytes added.
 *		Spare bits in a final partial byte are zero.
 *
 *------------------------------------------------------------------*/

func (p *Packer) Pack(dst []byte, block []float32) []byte {
	var order binary.AppendByteOrder = binary.LittleEndian
	if p.swap {
		order = binary.BigEndian
	}

	switch p.nbits {
	case 32:
		for _, v := range block {
			dst = order.AppendUint32(dst, math.Float32bits(v))
		}
	case 16:
		for _, v := range block {
			dst = order.AppendUint16(dst, digitize(float64(v), p.min, p.step, uint16(math.MaxUint16)))
		}
	case 8:
		for _, v := range block {
			dst = append(dst, digitize(float64(v), p.min, p.step, uint8(math.MaxUint8)))
		}
	default:
		var perByte = 8 / p.nbits
		var top = uint8(p.Levels() - 1)
		var acc byte

		for i, v := range block {
			var slot = i % perByte
			acc |= digitize(float64(v), p.min, p.step, top) << (slot * p.nbits)

			if slot == perByte-1 {
				dst = append(dst, acc)
				acc = 0
			}
		}

		if len(block)%perByte != 0 {
			dst = append(dst, acc)
		}
	}

	return dst
}

// Unpack reverses Pack for n samples, mapping each level back through Level.
// Used for checking output, nothing in the generator itself needs it.
func (p *Packer) Unpack(src []byte, n int) ([]float64, error) {
	if len(src) < PackedSize(n, p.nbits) {
		return nil, fmt.Errorf("need %d bytes for %d samples of %d bits, have %d", PackedSize(n, p.nbits), n, p.nbits, len(src))
	}

	var order binary.ByteOrder = binary.LittleEndian
	if p.swap {
		order = binary.BigEndian
	}

	var out = make([]float64, n)

	switch p.nbits {
	case 32:
		for i := range out {
			out[i] = float64(math.Float32frombits(order.Uint32(src[i*4:])))
		}
	case 16:
		for i := range out {
			out[i] = p.Level(order.Uint16(src[i*2:]))
		}
	default:
		var perByte = 8 / p.nbits
		var mask = byte(p.Levels() - 1)

		for i := range out {
			var b = src[i/perByte]
			var q = (b >> ((i % perByte) * p.nbits)) & mask
			out[i] = p.Level(uint16(q))
		}
	}

	return out, nil
}
