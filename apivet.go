// Package apivet validates OpenAPI Specification 3.1.x documents and
// produces addressable diagnostics keyed by JSON Pointer.
//
// The engine lives in the validator package; this root package only
// carries build identity shared by the CLI and the MCP server.
package apivet

var (
	// version is set via ldflags during build by GoReleaser
	// For development builds, this will show "dev"
	version = "dev"
)

// Version returns the compiled version or 'dev' if run from source
func Version() string {
	return version
}
