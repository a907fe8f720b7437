package broadcaster

import (
	"encoding/json"

	bCtx "github.com/craftbid/goapi/base/ctx"
	"github.com/craftbid/goapi/base/log"
	"github.com/craftbid/goapi/domain/collectible"
	"github.com/craftbid/goapi/service/redis"
)

type impl struct {
	redis redis.Service
}

// New returns a Broadcaster that fans events out through redis pub/sub, one
// channel per auction. The websocket hub subscribes on the other side.
func New(redis redis.Service) collectible.Broadcaster {
	return &impl{redis}
}

func (im *impl) Publish(ctx bCtx.Ctx, event *collectible.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"event": event.Type,
		}).Error("marshal event failed")
		return err
	}

	return im.redis.Publish(ctx, collectible.Topic(event.CollectibleId), payload)
}
