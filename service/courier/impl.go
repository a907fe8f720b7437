package courier

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	bCtx "github.com/craftbid/goapi/base/ctx"
	"github.com/craftbid/goapi/base/log"
	"github.com/craftbid/goapi/base/metrics"
)

const (
	bearerKey = "x-api-key"
)

type sendPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type client struct {
	client   http.Client
	endpoint string
	timeout  time.Duration
	apikey   string
	met      metrics.Service
}

func NewClient(cfg *ClientCfg, met metrics.Service) Client {
	return &client{
		client:   cfg.HttpClient,
		endpoint: cfg.Endpoint,
		timeout:  cfg.Timeout,
		apikey:   cfg.Apikey,
		met:      met,
	}
}

func (c *client) Send(ctx bCtx.Ctx, to, subject, body string) error {
	defer c.met.BumpTime("time", "func", "send").End()

	payload, err := json.Marshal(sendPayload{To: to, Subject: subject, Body: body})
	if err != nil {
		return err
	}

	ctx, cancel := bCtx.WithTimeout(ctx, c.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(payload))
	if err != nil {
		ctx.WithFields(log.Fields{
			"endpoint": c.endpoint,
			"err":      err,
		}).Error("NewRequestWithContext failed")
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(bearerKey, c.apikey)

	resp, err := c.client.Do(req)
	if err != nil {
		c.met.BumpSum("send.err", 1)
		ctx.WithFields(log.Fields{
			"endpoint": c.endpoint,
			"err":      err,
		}).Error("client.Do failed")
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.met.BumpSum("send.err", 1)
		ctx.WithFields(log.Fields{
			"endpoint":   c.endpoint,
			"statusCode": resp.StatusCode,
		}).Error("resp.StatusCode != 200")
		return ErrStatusCodeNotOk
	}
	return nil
}
