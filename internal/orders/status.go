package orders

// ItemStatus is the approval state of a single order line. Transitions are
// unrestricted: shop staff may flip an item between approved and rejected
// any number of times.
type ItemStatus int

const (
	StatusPending  ItemStatus = 0
	StatusApproved ItemStatus = 1
	StatusRejected ItemStatus = 2
)

func (s ItemStatus) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

func (s ItemStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}
