// Package clients holds the HTTP implementations of the collaborator
// interfaces the deployment engine consumes: the subgraph for username
// and infrastructure lookups, the relay for transaction submission and
// the pinning gateway for metadata blobs.
package clients

import (
	"context"
	"fmt"

	imrocreq "github.com/imroc/req/v3"
	"k8s.io/klog/v2"

	"github.com/orgforge-labs/orgforge/pkg/config"
	"github.com/orgforge-labs/orgforge/pkg/deploy"
)

// SubgraphClient answers directory and infrastructure queries against
// the indexer's GraphQL endpoint.
type SubgraphClient struct {
	url string
	req *imrocreq.Client
}

var (
	_ deploy.UsernameDirectory     = (*SubgraphClient)(nil)
	_ deploy.InfrastructureCatalog = (*SubgraphClient)(nil)
)

func NewSubgraphClient() *SubgraphClient {
	conf := config.GetConfig()
	return &SubgraphClient{
		url: conf.Subgraph.URL,
		req: imrocreq.C().SetTimeout(conf.SubgraphTimeout()),
	}
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

const usernameQuery = `query($names: [String!]!) {
  users(where: {username_in: $names}) { username address }
}`

type usernameResponse struct {
	Data struct {
		Users []struct {
			Username string `json:"username"`
			Address  string `json:"address"`
		} `json:"users"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

func (c *SubgraphClient) Resolve(ctx context.Context, usernames []string) (deploy.Resolution, error) {
	out := deploy.Resolution{Resolved: map[string]string{}}
	if len(usernames) == 0 {
		return out, nil
	}

	var body usernameResponse
	resp, err := c.req.R().
		SetContext(ctx).
		SetBody(&graphqlRequest{Query: usernameQuery, Variables: map[string]any{"names": usernames}}).
		SetSuccessResult(&body).
		Post(c.url)
	if err != nil {
		return out, fmt.Errorf("resolve usernames: %w", err)
	}
	if !resp.IsSuccessState() {
		return out, fmt.Errorf("resolve usernames: subgraph returned %s", resp.Status)
	}
	if len(body.Errors) > 0 {
		return out, fmt.Errorf("resolve usernames: %s", body.Errors[0].Message)
	}

	for _, u := range body.Data.Users {
		out.Resolved[u.Username] = u.Address
	}
	for _, name := range usernames {
		if _, ok := out.Resolved[name]; !ok {
			out.NotFound = append(out.NotFound, name)
		}
	}
	if len(out.NotFound) > 0 {
		klog.V(4).Infof("subgraph: %d of %d usernames unresolved", len(out.NotFound), len(usernames))
	}
	return out, nil
}

const infrastructureQuery = `query {
  infrastructure(id: "current") {
    registryAddress deployerAddress
    beacons { typeName address }
  }
}`

type infrastructureResponse struct {
	Data struct {
		Infrastructure struct {
			RegistryAddress string `json:"registryAddress"`
			DeployerAddress string `json:"deployerAddress"`
			Beacons         []struct {
				TypeName string `json:"typeName"`
				Address  string `json:"address"`
			} `json:"beacons"`
		} `json:"infrastructure"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

func (c *SubgraphClient) Read(ctx context.Context) (deploy.Infrastructure, error) {
	var body infrastructureResponse
	resp, err := c.req.R().
		SetContext(ctx).
		SetBody(&graphqlRequest{Query: infrastructureQuery}).
		SetSuccessResult(&body).
		Post(c.url)
	if err != nil {
		return deploy.Infrastructure{}, fmt.Errorf("read infrastructure: %w", err)
	}
	if !resp.IsSuccessState() {
		return deploy.Infrastructure{}, fmt.Errorf("read infrastructure: subgraph returned %s", resp.Status)
	}
	if len(body.Errors) > 0 {
		return deploy.Infrastructure{}, fmt.Errorf("read infrastructure: %s", body.Errors[0].Message)
	}

	rec := body.Data.Infrastructure
	infra := deploy.Infrastructure{
		RegistryAddress: rec.RegistryAddress,
		DeployerAddress: rec.DeployerAddress,
		Beacons:         make(map[string]string, len(rec.Beacons)),
	}
	for _, b := range rec.Beacons {
		infra.Beacons[b.TypeName] = b.Address
	}
	return infra, nil
}
