package schema

import (
	"embed"
	"io/fs"
)

//go:embed defaults/*.yaml
var embeddedDefaults embed.FS

// DefaultFS returns the bundled schema documents (userInfo, addressInfo and
// paymentInfo). Callers may pass it to LoadFS or layer it with their own files.
func DefaultFS() fs.FS {
	sub, err := fs.Sub(embeddedDefaults, "defaults")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

// DefaultRegistry loads the bundled schemas.
func DefaultRegistry() (*Registry, error) {
	return LoadFS(DefaultFS())
}
