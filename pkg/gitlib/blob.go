package gitlib

import (
	git2go "github.com/libgit2/git2go/v34"
)

// Blob wraps a libgit2 blob.
type Blob struct {
	blob *git2go.Blob
}

// Hash returns the blob hash.
func (b *Blob) Hash() Hash {
	return HashFromOid(b.blob.Id())
}

// Size returns the blob size in bytes.
func (b *Blob) Size() int64 {
	return b.blob.Size()
}

// Contents returns a copy of the blob contents that stays valid after Free.
func (b *Blob) Contents() []byte {
	data := b.blob.Contents()
	out := make([]byte, len(data))
	copy(out, data)

	return out
}

// Free releases the blob resources.
func (b *Blob) Free() {
	if b.blob != nil {
		b.blob.Free()
		b.blob = nil
	}
}

// ReadBlob looks up a blob and returns its contents. The zero hash yields nil
// contents, which is how the missing side of an added or deleted file is read.
func ReadBlob(repo *Repository, hash Hash) ([]byte, error) {
	if hash.IsZero() {
		return nil, nil
	}

	blob, err := repo.LookupBlob(hash)
	if err != nil {
		return nil, err
	}
	defer blob.Free()

	return blob.Contents(), nil
}
