// Package fairshuffle shuffles decks from a cryptographically secure stream.
package fairshuffle

import (
	"crypto/cipher"
	"encoding/binary"
	"sync"

	"go.dedis.ch/kyber/v4/suites"
)

var suite = suites.MustFind("Ed25519")

// Shuffler is a Fisher–Yates shuffler fed by a cipher stream. It is safe for
// concurrent use.
type Shuffler struct {
	mu     sync.Mutex
	stream cipher.Stream
	buf    [8]byte
}

// New returns a Shuffler backed by the suite's system random stream.
func New() *Shuffler {
	return FromStream(suite.RandomStream())
}

// NewSeeded returns a Shuffler whose order is fully determined by seed. It is
// used for replayable games.
func NewSeeded(seed int64) *Shuffler {
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], uint64(seed))
	return FromStream(suite.XOF(key[:]))
}

// FromStream returns a Shuffler that draws from stream.
func FromStream(stream cipher.Stream) *Shuffler {
	return &Shuffler{stream: stream}
}

// Shuffle permutes n elements by calling swap, matching rand.Shuffle.
func (s *Shuffler) Shuffle(n int, swap func(i, j int)) {
	if n < 0 {
		panic("fairshuffle: invalid argument to Shuffle")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := n - 1; i > 0; i-- {
		swap(i, s.intn(i+1))
	}
}

// intn returns a uniform value in [0, n). Callers hold s.mu.
func (s *Shuffler) intn(n int) int {
	bound := uint64(n)
	// Reject the tail of the range so every residue is equally likely.
	limit := ^uint64(0) - (^uint64(0)%bound+1)%bound
	for {
		v := s.next()
		if v <= limit {
			return int(v % bound)
		}
	}
}

func (s *Shuffler) next() uint64 {
	clear(s.buf[:])
	s.stream.XORKeyStream(s.buf[:], s.buf[:])
	return binary.LittleEndian.Uint64(s.buf[:])
}
