package resputil

type ErrorCode int

const (
	OK ErrorCode = 0

	// General
	InvalidRequest ErrorCode = 40001

	// Token
	TokenExpired ErrorCode = 40101
	TokenInvalid ErrorCode = 40102

	// Session
	SessionNotFound ErrorCode = 40401

	// Draft edits
	ActionRejected   ErrorCode = 42201
	ValidationFailed ErrorCode = 42202

	// Catalog
	TemplateNotFound  ErrorCode = 40402
	VariationNotFound ErrorCode = 40403

	// Deployment
	UsernameUnresolved    ErrorCode = 42301
	InfrastructureMissing ErrorCode = 42302
	DeploymentFailed      ErrorCode = 50201

	// Indicates laziness of the developer
	// Frontend will directly print the message without any translation
	NotSpecified ErrorCode = 99999
)
