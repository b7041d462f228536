package credentials

var _ Store = NoopStore{}

// NoopStore is the fallback when no writable storage location exists. Every
// read reports absence and every write is silently dropped; callers treat
// persistence as optional and must not crash without it.
type NoopStore struct{}

func NewNoop() Store { return NoopStore{} }

func (NoopStore) Get(Key) (string, bool)    { return "", false }
func (NoopStore) Set(Key, string) error     { return nil }
func (NoopStore) Remove(Key)                {}
func (NoopStore) ClearSession()             {}
func (NoopStore) ClearPendingVerification() {}
func (NoopStore) ClearAll()                 {}
