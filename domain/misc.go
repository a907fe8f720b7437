package domain

type SortDir int8

const (
	SortDirAsc  = 1
	SortDirDesc = -1
)

// CollectorId identifies a marketplace account (seller or bidder)
type CollectorId string

func (id CollectorId) String() string {
	return string(id)
}

func (id CollectorId) IsEmpty() bool {
	return len(id) == 0
}

func (id CollectorId) Equals(other CollectorId) bool {
	return id == other
}
