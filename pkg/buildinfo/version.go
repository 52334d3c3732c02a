// Package buildinfo carries the version stamped into zoomtree binaries.
//
// The variables are overridden at link time:
//
//	go build -ldflags "-X github.com/matzehuels/zoomtree/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/zoomtree/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/zoomtree/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/zoomtree
package buildinfo

import "fmt"

var (
	Version = "dev"     // semantic version, e.g. "v0.3.0"
	Commit  = "none"    // git commit SHA
	Date    = "unknown" // build timestamp
)

// String returns the multi-line build description printed by --version.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// UserAgent identifies zoomtree in outgoing HTTP requests.
func UserAgent() string {
	return "zoomtree/" + Version
}
