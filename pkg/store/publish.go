package store

import "os"

// SendContext carries the environment-resolved defaults for the `Send`
// fallback. Host and Port are resolved but unused by the file publisher: its
// responsibility ends at writing the destination file, never at opening a
// socket, so they are exposed here for a future networked collaborator to
// read.
type SendContext struct {
	FramePath string
	Host      string
	Port      string
}

// DefaultSendContext resolves QGRAPHIC_FRAME_PATH (falling back to
// QGRAPHIC_FRAME_FILE, then "latest_frame.bin") and QGRAPHIC_HOST/PORT from
// the environment.
func DefaultSendContext() SendContext {
	path := os.Getenv("QGRAPHIC_FRAME_PATH")
	if path == "" {
		path = os.Getenv("QGRAPHIC_FRAME_FILE")
	}
	if path == "" {
		path = "latest_frame.bin"
	}
	return SendContext{
		FramePath: path,
		Host:      os.Getenv("QGRAPHIC_HOST"),
		Port:      os.Getenv("QGRAPHIC_PORT"),
	}
}
