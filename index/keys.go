package index

import "encoding/binary"

// Key prefixes for index data
const (
	indexEntryPrefix = "identry"
	indexEntrySeq    = "identryseq"
)

// makeIndexEntryKey generates a key for an index entry by position.
// Format: prefix:position
func makeIndexEntryKey(pos uint64) []byte {
	prefix := indexEntryPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort preserves insertion order
	binary.BigEndian.PutUint64(buf[offset:], pos)
	return buf
}
