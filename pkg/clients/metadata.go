package clients

import (
	"context"
	"fmt"

	imrocreq "github.com/imroc/req/v3"

	"github.com/orgforge-labs/orgforge/pkg/config"
	"github.com/orgforge-labs/orgforge/pkg/deploy"
)

// MetadataClient pins metadata blobs through the configured gateway
// and reads them back by handle.
type MetadataClient struct {
	gatewayURL string
	pinURL     string
	req        *imrocreq.Client
}

var _ deploy.MetadataStore = (*MetadataClient)(nil)

func NewMetadataClient() *MetadataClient {
	conf := config.GetConfig()
	client := imrocreq.C()
	if conf.Metadata.Token != "" {
		client.SetCommonBearerAuthToken(conf.Metadata.Token)
	}
	return &MetadataClient{
		gatewayURL: conf.Metadata.GatewayURL,
		pinURL:     conf.Metadata.PinURL,
		req:        client,
	}
}

type pinResponse struct {
	Handle string `json:"handle"`
	Error  string `json:"error"`
}

func (c *MetadataClient) Put(ctx context.Context, data []byte) (string, error) {
	var body pinResponse
	resp, err := c.req.R().
		SetContext(ctx).
		SetBodyBytes(data).
		SetContentType("application/octet-stream").
		SetSuccessResult(&body).
		Post(c.pinURL)
	if err != nil {
		return "", fmt.Errorf("pin metadata: %w", err)
	}
	if !resp.IsSuccessState() {
		return "", fmt.Errorf("pin metadata: gateway returned %s", resp.Status)
	}
	if body.Error != "" {
		return "", fmt.Errorf("pin metadata: %s", body.Error)
	}
	return body.Handle, nil
}

func (c *MetadataClient) Get(ctx context.Context, handle string) ([]byte, error) {
	resp, err := c.req.R().
		SetContext(ctx).
		Get(c.gatewayURL + "/" + handle)
	if err != nil {
		return nil, fmt.Errorf("fetch metadata %s: %w", handle, err)
	}
	if !resp.IsSuccessState() {
		return nil, fmt.Errorf("fetch metadata %s: gateway returned %s", handle, resp.Status)
	}
	return resp.Bytes(), nil
}
