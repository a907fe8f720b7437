package domain

// Table is a mongo collection name
type Table string

const (
	TableCollectibles Table = "collectibles"
	TableCollectors   Table = "collectors"
	TableHealthCheck  Table = "health_check"
)
