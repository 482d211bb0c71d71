package version

// Version is the engine version. It is set at build time using ldflags:
// -ldflags "-X github.com/rxtech-lab/argo-vector/internal/version.Version=1.2.3"
// The value "main" marks a development build.
var Version = "v1.0.0"

// GetVersion returns the engine version.
func GetVersion() string {
	return Version
}
