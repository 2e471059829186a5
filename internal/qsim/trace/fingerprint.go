package trace

import (
	"encoding/binary"
	"encoding/hex"
	"math"

	"golang.org/x/crypto/sha3"
)

// Fingerprint returns a short hex digest identifying a register state.
// Equal amplitude vectors always produce equal fingerprints.
func Fingerprint(amps []complex128) string {
	h := sha3.New256()

	buf := make([]byte, 16)
	for _, amp := range amps {
		binary.LittleEndian.PutUint64(buf[:8], math.Float64bits(real(amp)))
		binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(imag(amp)))
		h.Write(buf)
	}

	return hex.EncodeToString(h.Sum(nil)[:16])
}
