package output

import (
	"errors"
	"fmt"
	"io"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

// ErrMalformedRaw is returned when a raw accumulation dump cannot be decoded
var ErrMalformedRaw = errors.New("malformed raw framebuffer")

// Field numbers of the raw accumulation message
const (
	rawWidthField   protowire.Number = 1
	rawHeightField  protowire.Number = 2
	rawSamplesField protowire.Number = 3
	rawSumsField    protowire.Number = 4 // packed fixed64, three float64 bits per pixel
)

// WriteRaw writes the unaveraged sums of fb in protobuf wire format.
// Unlike the image formats it is lossless, so dumps can be merged later.
func WriteRaw(w io.Writer, fb *renderer.Framebuffer) error {
	sums := make([]byte, 0, len(fb.Sums)*3*8)
	for _, s := range fb.Sums {
		sums = protowire.AppendFixed64(sums, math.Float64bits(s.X))
		sums = protowire.AppendFixed64(sums, math.Float64bits(s.Y))
		sums = protowire.AppendFixed64(sums, math.Float64bits(s.Z))
	}

	var b []byte
	b = protowire.AppendTag(b, rawWidthField, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(fb.Width))
	b = protowire.AppendTag(b, rawHeightField, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(fb.Height))
	b = protowire.AppendTag(b, rawSamplesField, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(fb.Samples))
	b = protowire.AppendTag(b, rawSumsField, protowire.BytesType)
	b = protowire.AppendBytes(b, sums)

	_, err := w.Write(b)
	return err
}

// ReadRaw decodes a dump written by WriteRaw. Unknown fields are skipped.
func ReadRaw(r io.Reader) (*renderer.Framebuffer, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var width, height, samples uint64
	var sums []byte
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRaw, protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == rawWidthField && typ == protowire.VarintType:
			width, n = protowire.ConsumeVarint(b)
		case num == rawHeightField && typ == protowire.VarintType:
			height, n = protowire.ConsumeVarint(b)
		case num == rawSamplesField && typ == protowire.VarintType:
			samples, n = protowire.ConsumeVarint(b)
		case num == rawSumsField && typ == protowire.BytesType:
			sums, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: field %d: %v", ErrMalformedRaw, num, protowire.ParseError(n))
		}
		b = b[n:]
	}

	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: invalid dimensions %dx%d", ErrMalformedRaw, width, height)
	}
	// Divide instead of multiplying so huge dimensions cannot wrap around
	pixels := uint64(len(sums)) / 24
	if uint64(len(sums))%24 != 0 || pixels%width != 0 || pixels/width != height {
		return nil, fmt.Errorf("%w: %d sum bytes do not cover %dx%d pixels", ErrMalformedRaw, len(sums), width, height)
	}

	fb := renderer.NewFramebuffer(int(width), int(height))
	fb.Samples = int(samples)
	for i := range fb.Sums {
		var channels [3]float64
		for c := range channels {
			bits, n := protowire.ConsumeFixed64(sums)
			if n < 0 {
				return nil, fmt.Errorf("%w: %v", ErrMalformedRaw, protowire.ParseError(n))
			}
			channels[c] = math.Float64frombits(bits)
			sums = sums[n:]
		}
		fb.Sums[i] = core.NewVec3(channels[0], channels[1], channels[2])
	}
	return fb, nil
}
