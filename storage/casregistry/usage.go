package casregistry

// Usage restricts which programs should accept a given backend.
// A backend registers itself via init() and is enabled in a binary by
// importing the backend package, so the set is fixed at build time.
type Usage uint8

const (
	// UsageCLI indicates the backend should be available in the govtoken CLI.
	UsageCLI Usage = 1 << iota
	// UsageDaemon indicates the backend should be available in govtokend.
	UsageDaemon
)

func (u Usage) allows(want Usage) bool { return u&want != 0 }
