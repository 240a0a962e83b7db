package holder

// Raw is a bare holder value carrying identity and nothing else. The store
// uses it to probe rows by key (for example legacy "<type>-<name>" rows)
// without resolving a live entity.
type Raw struct {
	HolderType string
	HolderID   string
}

// NewRaw builds a raw holder for a (type, id) pair.
func NewRaw(holderType, holderID string) Raw {
	return Raw{HolderType: holderType, HolderID: holderID}
}

func (r Raw) ID() string   { return r.HolderID }
func (r Raw) Type() string { return r.HolderType }
func (r Raw) Name() string { return "" }

func (r Raw) SendMessage(msg string)         {}
func (r Raw) HasPermission(perm string) bool { return false }
