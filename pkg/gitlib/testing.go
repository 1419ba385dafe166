package gitlib

// TestCommit is an in-memory commit for unit tests that do not need a
// real repository.
type TestCommit struct {
	hash    Hash
	message string
}

// NewTestCommit creates a new mock commit for testing.
func NewTestCommit(hash Hash, message string) *TestCommit {
	return &TestCommit{hash: hash, message: message}
}

// Hash returns the commit hash.
func (m *TestCommit) Hash() Hash { return m.hash }

// Message returns the commit message.
func (m *TestCommit) Message() string { return m.message }
