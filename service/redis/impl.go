package redis

import (
	"encoding/json"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/craftbid/goapi/base/ctx"
	"github.com/craftbid/goapi/base/log"
	"github.com/craftbid/goapi/base/metrics"
	"github.com/craftbid/goapi/domain/keys"
)

const (
	healthCheckPeriod = time.Second
)

type redImpl struct {
	name string
	met  metrics.Service
	pool *redis.Pool
}

// New redis service backed by one pool
func New(name string, met metrics.Service, pool *redis.Pool) Service {
	return &redImpl{
		name: name,
		met:  met,
		pool: pool,
	}
}

func (r *redImpl) getConn() (redis.Conn, error) {
	defer r.met.BumpTime("getconn.time", "cluster", r.name).End()

	conn := r.pool.Get()
	if err := conn.Err(); err != nil {
		r.met.BumpSum("getConn.err", 1, "cluster", r.name, "reason", err.Error())
		return nil, err
	}
	return conn, nil
}

func (r *redImpl) connDo(context ctx.Ctx, commandName string, args ...interface{}) (interface{}, error) {
	conn, err := r.getConn()
	if err != nil {
		return nil, err
	}

	reply, err := conn.Do(commandName, args...)

	// Closing conn explicitly asap improves redigo's performance,
	// bacause longer an connection is hold and not closed, the
	// pool need to handle more connections at the same time and
	// getConn time might burst.
	if err := conn.Close(); err != nil {
		r.met.BumpSum("conn.Close.err", 1, "cluster", r.name)
	}
	return reply, err
}

func (r *redImpl) Get(context ctx.Ctx, key string) ([]byte, error) {
	tags := []string{"func", "get", "cluster", r.name, "prefix", keys.GetPrefix(key)}
	defer r.met.BumpTime("time", tags...).End()

	val, err := redis.Bytes(r.connDo(context, "GET", key))
	if err == redis.ErrNil {
		return nil, ErrNotFound
	}
	if err != nil {
		context.WithField("err", err).Error("get redis failed")
		return nil, err
	}
	r.met.BumpHistogram("bytes", float64(len(val)), tags...)
	return val, nil
}

func (r *redImpl) GetStruct(context ctx.Ctx, key string, val interface{}) error {
	data, err := r.Get(context, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, val); err != nil {
		context.WithFields(log.Fields{"key": key, "err": err}).Error("unmarshal redis value failed")
		return err
	}
	return nil
}

func (r *redImpl) Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error {
	tags := []string{"func", "set", "cluster", r.name, "prefix", keys.GetPrefix(key)}
	defer r.met.BumpTime("time", tags...).End()
	if expire == Forever {
		r.met.BumpSum("ttl.forever", 1, tags...)
	} else {
		r.met.BumpAvg("ttl", expire.Seconds(), tags...)
	}
	r.met.BumpHistogram("bytes", float64(len(val)), tags...)

	var err error
	if expire == Forever {
		_, err = r.connDo(context, "SET", key, val)
	} else {
		_, err = r.connDo(context, "SET", key, val, "PX", int(expire/time.Millisecond))
	}
	if err != nil {
		context.WithField("err", err).Error("set redis failed")
	}
	return err
}

func (r *redImpl) SetStruct(context ctx.Ctx, key string, val interface{}, expire time.Duration) error {
	data, err := json.Marshal(val)
	if err != nil {
		context.WithFields(log.Fields{"key": key, "err": err}).Error("marshal redis value failed")
		return err
	}
	return r.Set(context, key, data, expire)
}

func (r *redImpl) SetNX(context ctx.Ctx, key string, val []byte, expire time.Duration) error {
	tags := []string{"func", "setnx", "cluster", r.name, "prefix", keys.GetPrefix(key)}
	defer r.met.BumpTime("time", tags...).End()
	r.met.BumpHistogram("bytes", float64(len(val)), tags...)

	var err error
	if expire == Forever {
		_, err = redis.String(r.connDo(context, "SET", key, val, "NX"))
	} else {
		_, err = redis.String(r.connDo(context, "SET", key, val, "NX", "PX", int(expire/time.Millisecond)))
	}
	if err == redis.ErrNil {
		return ErrNotSet
	}
	return err
}

func (r *redImpl) Del(context ctx.Ctx, ks ...string) (int, error) {
	tags := []string{"func", "del", "cluster", r.name, "prefix", metrics.TagValueNA}
	defer r.met.BumpTime("time", tags...).End()

	args := make([]interface{}, 0, len(ks))
	for _, k := range ks {
		args = append(args, k)
	}
	n, err := redis.Int(r.connDo(context, "DEL", args...))
	if err != nil {
		context.WithField("err", err).Error("del redis failed")
		return 0, err
	}
	return n, nil
}

func (r *redImpl) TTL(context ctx.Ctx, key string) (int, error) {
	tags := []string{"func", "ttl", "cluster", r.name, "prefix", keys.GetPrefix(key)}
	defer r.met.BumpTime("time", tags...).End()

	ttl, err := redis.Int(r.connDo(context, "TTL", key))
	if err != nil {
		context.WithField("err", err).Error("ttl redis failed")
		return 0, err
	}
	return ttl, nil
}

func (r *redImpl) Publish(context ctx.Ctx, channel string, msg []byte) error {
	tags := []string{"func", "publish", "cluster", r.name, "prefix", keys.GetPrefix(channel)}
	defer r.met.BumpTime("time", tags...).End()
	r.met.BumpHistogram("bytes", float64(len(msg)), tags...)

	if _, err := r.connDo(context, "PUBLISH", channel, msg); err != nil {
		context.WithFields(log.Fields{"channel": channel, "err": err}).Error("publish redis failed")
		return err
	}
	return nil
}

func (r *redImpl) PSubscribe(context ctx.Ctx, pattern string, handler func(context ctx.Ctx, msg Message)) error {
	for {
		if err := r.subscribeOnce(context, pattern, handler); err != nil {
			r.met.BumpSum("subscribe.err", 1, "cluster", r.name)
			context.WithFields(log.Fields{"pattern": pattern, "err": err}).Error("redis subscription dropped")
		}

		select {
		case <-context.Done():
			return context.Err()
		case <-time.After(time.Second):
			// reconnect
		}
	}
}

func (r *redImpl) subscribeOnce(context ctx.Ctx, pattern string, handler func(context ctx.Ctx, msg Message)) error {
	conn, err := r.getConn()
	if err != nil {
		return err
	}
	defer conn.Close()

	psc := redis.PubSubConn{Conn: conn}
	if err := psc.PSubscribe(pattern); err != nil {
		return err
	}
	defer psc.PUnsubscribe()

	recvErr := make(chan error, 1)
	go func() {
		for {
			switch v := psc.Receive().(type) {
			case redis.Message:
				handler(context, Message{Channel: v.Channel, Data: v.Data})
			case error:
				recvErr <- v
				return
			}
		}
	}()

	ticker := time.NewTicker(healthCheckPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-context.Done():
			return nil
		case err := <-recvErr:
			return err
		case <-ticker.C:
			if err := psc.Ping(""); err != nil {
				return err
			}
		}
	}
}
