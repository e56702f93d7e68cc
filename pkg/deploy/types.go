// Package deploy turns a validated draft into the payload the on-chain
// deployer consumes, and defines the collaborator interfaces the engine
// calls at the system boundary.
package deploy

import (
	"context"
	"errors"

	"github.com/orgforge-labs/orgforge/pkg/model"
)

var (
	// ErrUsernameUnresolved blocks payload production when any
	// additional wearer username has no address.
	ErrUsernameUnresolved = errors.New("deploy: username could not be resolved")

	// ErrInfrastructureMissing blocks payload production when the
	// infrastructure record lacks a required address.
	ErrInfrastructureMissing = errors.New("deploy: infrastructure addresses incomplete")

	// ErrDraftInvalid blocks payload production when the draft fails
	// full validation.
	ErrDraftInvalid = errors.New("deploy: draft failed validation")
)

// TopLevelAdmin is the wire sentinel for a role with no admin.
const TopLevelAdmin = uint32(0xFFFFFFFF)

// Infrastructure is the address record read from the catalog before a
// deployment can be assembled.
type Infrastructure struct {
	RegistryAddress string            `json:"registryAddress"`
	DeployerAddress string            `json:"deployerAddress"`
	Beacons         map[string]string `json:"beacons"`
}

// Complete reports whether every required address is present.
func (in Infrastructure) Complete() bool {
	return in.RegistryAddress != "" && in.DeployerAddress != "" && len(in.Beacons) > 0
}

// Resolution is the outcome of a batch username lookup.
type Resolution struct {
	Resolved map[string]string `json:"resolved"`
	NotFound []string          `json:"notFound"`
}

// MetadataStore persists opaque metadata blobs and returns handles.
type MetadataStore interface {
	Put(ctx context.Context, data []byte) (string, error)
	Get(ctx context.Context, handle string) ([]byte, error)
}

// UsernameDirectory resolves usernames to addresses in one batch call.
type UsernameDirectory interface {
	Resolve(ctx context.Context, usernames []string) (Resolution, error)
}

// InfrastructureCatalog reads the current deployment address record.
type InfrastructureCatalog interface {
	Read(ctx context.Context) (Infrastructure, error)
}

// Deployer submits an assembled payload and returns a receipt.
type Deployer interface {
	Submit(ctx context.Context, payload *Payload) (Receipt, error)
}

// Receipt is the opaque acknowledgement of a submitted deployment.
type Receipt struct {
	ID     string `json:"id"`
	TxHash string `json:"txHash"`
}

// Payload is the wire contract of a deployment. Field names are
// stable; downstream signing clients parse them positionally by key.
type Payload struct {
	Org         OrgPayload                     `json:"org"`
	Roles       []RolePayload                  `json:"roles"`
	Permissions map[model.PermissionKey]uint32 `json:"permissions"`
	Voting      VotingPayload                  `json:"voting"`
	Features    model.Features                 `json:"features"`
}

type OrgPayload struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	MetadataHandle string `json:"metadataHandle"`
	LogoHandle     string `json:"logoHandle"`
	AutoUpgrade    bool   `json:"autoUpgrade"`
	TemplateTag    string `json:"templateTag"`
	Username       string `json:"username"`
}

// RolePayload is one role in deploy order. AdminIndex refers to the
// deploy-order position of the admin role, or TopLevelAdmin.
type RolePayload struct {
	Name       string              `json:"name"`
	Image      string              `json:"image"`
	AdminIndex uint32              `json:"adminIndex"`
	MaxSupply  uint32              `json:"maxSupply"`
	MutableHat bool                `json:"mutableHat"`
	Eligible   bool                `json:"eligible"`
	Standing   bool                `json:"standing"`
	Vouching   VouchingPayload     `json:"vouching"`
	Dist       DistributionPayload `json:"distribution"`
}

type VouchingPayload struct {
	Enabled              bool `json:"enabled"`
	Quorum               int  `json:"quorum"`
	VoucherIndex         int  `json:"voucherIndex"`
	CombineWithHierarchy bool `json:"combineWithHierarchy"`
}

type DistributionPayload struct {
	MintToDeployer  bool     `json:"mintToDeployer"`
	MintToExecutor  bool     `json:"mintToExecutor"`
	ResolvedWearers []string `json:"resolvedWearers"`
}

type VotingPayload struct {
	Mode         model.VotingMode     `json:"mode"`
	HybridQuorum int                  `json:"hybridQuorum"`
	DDQuorum     int                  `json:"ddQuorum"`
	Classes      []VotingClassPayload `json:"classes"`
}

// VotingClassPayload keeps classes in author order; only hat ids are
// rewritten into deploy-order indices.
type VotingClassPayload struct {
	Strategy   model.Strategy `json:"strategy"`
	SlicePct   int            `json:"slicePct"`
	Quadratic  bool           `json:"quadratic"`
	MinBalance float64        `json:"minBalance"`
	Asset      *string        `json:"asset"`
	HatIDs     []int          `json:"hatIds"`
}
