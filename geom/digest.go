package geom

import (
	"encoding/binary"
	"encoding/hex"
	"math"

	"github.com/zeebo/blake3"
)

// Digest returns a BLAKE3 hash of the vertices and indices of s.
// Identical geometry always hashes to the same value.
func (s *Shape) Digest() string {
	h := blake3.New()
	s.hashInto(h.Write)

	return hex.EncodeToString(h.Sum(nil))
}

// Digest returns a BLAKE3 hash over every slot of a, empty slots included.
func (a *Adaptive) Digest() string {
	h := blake3.New()

	for _, p := range a.Parts {
		if p == nil {
			_, _ = h.Write([]byte{0})

			continue
		}

		_, _ = h.Write([]byte{1})
		p.hashInto(h.Write)
	}

	return hex.EncodeToString(h.Sum(nil))
}

func (s *Shape) hashInto(write func([]byte) (int, error)) {
	buf := make([]byte, 0, 8*(2+2*len(s.Vertices)+len(s.Indices)))

	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(s.Vertices)))
	for _, v := range s.Vertices {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v.X))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v.Y))
	}

	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(s.Indices)))
	for _, i := range s.Indices {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(i))
	}

	_, _ = write(buf)
}
