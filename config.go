package widgy

import "github.com/goliatone/go-cms-widgy/internal/runtimeconfig"

var (
	ErrStorageProviderUnknown   = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDSNRequired       = runtimeconfig.ErrStorageDSNRequired
	ErrStorageDialectUnknown    = runtimeconfig.ErrStorageDialectUnknown
	ErrLoggingProviderUnknown   = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid      = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid     = runtimeconfig.ErrLoggingFormatInvalid
	ErrPreviewPolicyUnknown     = runtimeconfig.ErrPreviewPolicyUnknown
	ErrPreviewPolicyInsecure    = runtimeconfig.ErrPreviewPolicyInsecure
	ErrPreviewPermissionMissing = runtimeconfig.ErrPreviewPermissionMissing
	ErrRedirectHostInvalid      = runtimeconfig.ErrRedirectHostInvalid
	ErrBasePathInvalid          = runtimeconfig.ErrBasePathInvalid
)

type (
	Config            = runtimeconfig.Config
	StorageConfig     = runtimeconfig.StorageConfig
	CacheConfig       = runtimeconfig.CacheConfig
	LoggingConfig     = runtimeconfig.LoggingConfig
	HTTPConfig        = runtimeconfig.HTTPConfig
	PreviewConfig     = runtimeconfig.PreviewConfig
	PreviewPolicyName = runtimeconfig.PreviewPolicy
	FormsConfig       = runtimeconfig.FormsConfig
	TemplatesConfig   = runtimeconfig.TemplatesConfig
	LinksConfig       = runtimeconfig.LinksConfig
)

const (
	PreviewPolicyStaff      = runtimeconfig.PreviewPolicyStaff
	PreviewPolicyPermission = runtimeconfig.PreviewPolicyPermission
	PreviewPolicyAllowAll   = runtimeconfig.PreviewPolicyAllowAll
)

// DefaultConfig returns an in-memory setup with staff-only preview.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
