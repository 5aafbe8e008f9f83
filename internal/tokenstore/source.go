package tokenstore

// Source adapts a Store to the API client's TokenSource: every request reads
// the persisted token fresh, so a logout in one code path is immediately
// visible to the next call.
type Source struct {
	Store Store
}

func (s Source) Token() string {
	v, ok, err := s.Store.Load(TokenName)
	if err != nil || !ok {
		return ""
	}
	return v
}
