package courier

import (
	"net/http"
	"time"

	"golang.org/x/xerrors"

	bCtx "github.com/craftbid/goapi/base/ctx"
)

var (
	ErrStatusCodeNotOk = xerrors.Errorf("http.status != 200")
)

// Client delivers notifications through the external courier service. Best
// effort only, callers log failures and move on, a lost notification never
// fails the mutation that produced it.
type Client interface {
	Send(ctx bCtx.Ctx, to, subject, body string) error
}

type ClientCfg struct {
	HttpClient http.Client
	Endpoint   string
	Timeout    time.Duration
	Apikey     string
}
