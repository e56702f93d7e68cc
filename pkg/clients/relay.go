package clients

import (
	"context"
	"fmt"

	imrocreq "github.com/imroc/req/v3"
	"k8s.io/klog/v2"

	"github.com/orgforge-labs/orgforge/pkg/config"
	"github.com/orgforge-labs/orgforge/pkg/deploy"
)

// RelayClient submits assembled payloads to the signing relay.
type RelayClient struct {
	url string
	req *imrocreq.Client
}

var _ deploy.Deployer = (*RelayClient)(nil)

func NewRelayClient() *RelayClient {
	conf := config.GetConfig()
	client := imrocreq.C().SetTimeout(conf.RelayTimeout())
	if conf.Relay.APIKey != "" {
		client.SetCommonBearerAuthToken(conf.Relay.APIKey)
	}
	return &RelayClient{url: conf.Relay.URL, req: client}
}

type relayResponse struct {
	ID     string `json:"id"`
	TxHash string `json:"txHash"`
	Error  string `json:"error"`
}

func (c *RelayClient) Submit(ctx context.Context, payload *deploy.Payload) (deploy.Receipt, error) {
	var body relayResponse
	resp, err := c.req.R().
		SetContext(ctx).
		SetBody(payload).
		SetSuccessResult(&body).
		Post(c.url + "/v1/deployments")
	if err != nil {
		return deploy.Receipt{}, fmt.Errorf("submit deployment: %w", err)
	}
	if !resp.IsSuccessState() {
		return deploy.Receipt{}, fmt.Errorf("submit deployment: relay returned %s", resp.Status)
	}
	if body.Error != "" {
		return deploy.Receipt{}, fmt.Errorf("submit deployment: %s", body.Error)
	}
	klog.Infof("deployment submitted, id=%s tx=%s", body.ID, body.TxHash)
	return deploy.Receipt{ID: body.ID, TxHash: body.TxHash}, nil
}
