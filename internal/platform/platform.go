// Package platform maps the host OS and CPU architecture to the runner
// labels published on the model hub.
package platform

import "runtime"

// BinaryName is the inference runner executable shipped in the hub archives.
const BinaryName = "llama-lfm2-audio"

// labels maps GOOS/GOARCH pairs to the hub's runner directory names.
var labels = map[string]string{
	"darwin/arm64": "macos-arm64",
	"darwin/amd64": "macos-x86_64",
	"linux/amd64":  "linux-x86_64",
	"linux/arm64":  "linux-arm64",
}

// Label returns the runner label for the current host and whether a
// prebuilt runner exists for it.
func Label() (string, bool) {
	return labelFor(runtime.GOOS, runtime.GOARCH)
}

func labelFor(goos, goarch string) (string, bool) {
	l, ok := labels[goos+"/"+goarch]
	return l, ok
}

// Host returns the GOOS/GOARCH pair for error messages.
func Host() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}
