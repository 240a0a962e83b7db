package holder

import "fmt"

// GroupHolder is a synthetic holder for group entities (towns, nations)
// owned by a companion plugin rather than a single player. When the group
// has no native id, a deterministic one is derived as "<type>-<name>".
type GroupHolder struct {
	kind string
	id   string
	name string
}

// NewGroupHolder builds a group holder of the given kind. An empty id
// selects the derived "<kind>-<name>" form.
func NewGroupHolder(kind, id, name string) GroupHolder {
	if id == "" {
		id = kind + "-" + name
	}

	return GroupHolder{kind: kind, id: id, name: name}
}

func (h GroupHolder) ID() string   { return h.id }
func (h GroupHolder) Type() string { return h.kind }
func (h GroupHolder) Name() string { return h.name }

// SendMessage is a no-op: group entities have no session to deliver to.
// Broadcasting to members is the companion plugin's concern.
func (h GroupHolder) SendMessage(msg string) {}

func (h GroupHolder) HasPermission(perm string) bool { return false }

func (h GroupHolder) String() string {
	return fmt.Sprintf("GroupHolder(%s:%s)", h.kind, h.name)
}
