// Package gitlib wraps the parts of libgit2 needed to walk a repository's
// history and read the file changes of each commit.
package gitlib

import (
	"encoding/hex"

	git2go "github.com/libgit2/git2go/v34"
)

// HashSize is the size of a SHA-1 hash in bytes.
const HashSize = 20

// Hash represents a git object hash (SHA-1).
type Hash [HashSize]byte

// NewHash parses a hex string into a Hash. Invalid or short input leaves the
// remaining bytes zeroed.
func NewHash(hexStr string) Hash {
	var hash Hash

	raw, err := hex.DecodeString(hexStr)
	if err != nil && len(raw) == 0 {
		return hash
	}

	copy(hash[:], raw)

	return hash
}

// HashFromOid converts a libgit2 Oid to Hash.
func HashFromOid(oid *git2go.Oid) Hash {
	var h Hash
	copy(h[:], oid[:])

	return h
}

// String returns the lowercase hex representation of the hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether the hash is all zeros.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// ToOid converts Hash back to a libgit2 Oid.
func (h Hash) ToOid() *git2go.Oid {
	oid := new(git2go.Oid)
	copy(oid[:], h[:])

	return oid
}
