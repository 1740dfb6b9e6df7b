package highlight

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// IDs are ULID-shaped: 48-bit millisecond timestamp followed by 80 bits of
// randomness, Crockford base32, 26 characters. Ids minted within the same
// millisecond carry an increasing sequence so they stay unique and sortable.

var (
	idMu    sync.Mutex
	idTS    uint64
	idSeq   uint16
	idClock = func() time.Time { return time.Now() }
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewID returns a new highlight id.
func NewID() string {
	idMu.Lock()
	ts := uint64(idClock().UnixMilli())
	if ts == idTS {
		idSeq++
	} else {
		idTS = ts
		idSeq = 0
	}
	seq := idSeq
	idMu.Unlock()

	var b [16]byte
	for i := 0; i < 6; i++ {
		b[i] = byte(ts >> (40 - 8*i))
	}
	rand.Read(b[6:])
	binary.BigEndian.PutUint16(b[6:8], seq)
	return encodeID(b)
}

// encodeID writes the 128 bits most significant first, 5 bits per character,
// with two leading zero pad bits.
func encodeID(b [16]byte) string {
	hi := binary.BigEndian.Uint64(b[:8])
	lo := binary.BigEndian.Uint64(b[8:])

	var out [26]byte
	for i := 25; i >= 0; i-- {
		out[i] = crockford[lo&31]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}
