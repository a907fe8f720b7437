package redis

import (
	"errors"
	"time"

	"github.com/craftbid/goapi/base/ctx"
)

// Forever means the key has no associated expire
const Forever = time.Duration(-1)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = errors.New("key not found")
)

// Message is one pub/sub delivery
type Message struct {
	Channel string
	Data    []byte
}

// Service abstracts the redis layer
type Service interface {
	Get(context ctx.Ctx, key string) (val []byte, err error)
	GetStruct(context ctx.Ctx, key string, val interface{}) error
	Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error
	SetStruct(context ctx.Ctx, key string, val interface{}, expire time.Duration) error
	// SetNX sets the key only when absent, ErrNotSet is returned otherwise
	SetNX(context ctx.Ctx, key string, val []byte, expire time.Duration) error
	Del(context ctx.Ctx, ks ...string) (int, error)
	// TTL reports the remaining life of key in seconds
	TTL(context ctx.Ctx, key string) (int, error)

	// Publish pushes msg to every subscriber of channel, fire and forget
	Publish(context ctx.Ctx, channel string, msg []byte) error
	// PSubscribe blocks consuming messages matching pattern until the context
	// is done, invoking handler for each delivery. It reconnects on
	// connection loss.
	PSubscribe(context ctx.Ctx, pattern string, handler func(context ctx.Ctx, msg Message)) error
}

// ErrNotSet is returned by SetNX when the key already exists
var ErrNotSet = errors.New("key already exists")
