package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/orgforge-labs/orgforge/pkg/catalog"
	"github.com/orgforge-labs/orgforge/pkg/deploy"
	"github.com/orgforge-labs/orgforge/pkg/sessions"
)

type Manager interface {
	GetName() string
	RegisterPublic(group *gin.RouterGroup)
	RegisterProtected(group *gin.RouterGroup)
	RegisterAdmin(group *gin.RouterGroup)
}

// RegisterConfig carries the shared collaborators every manager may
// pull from at construction time.
type RegisterConfig struct {
	Store     *sessions.Store
	Catalog   *catalog.Catalog
	Directory deploy.UsernameDirectory
	Infra     deploy.InfrastructureCatalog
	Deployer  deploy.Deployer
	Metadata  deploy.MetadataStore
}

// Registers collects the manager constructors; each handler file
// appends its own in init().
var Registers []func(*RegisterConfig) Manager
