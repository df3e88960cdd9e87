package storage

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// Checksum returns the xxhash64 of data as 16 hex characters, most
// significant byte first. It versions assets by content and identifies
// generated variants in the ledger.
func Checksum(data []byte) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], xxhash.Sum64(data))
	return hex.EncodeToString(b[:])
}
