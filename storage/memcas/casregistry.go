package memcas

import (
	"flag"

	"xdao.co/govtoken/storage"
	"xdao.co/govtoken/storage/casregistry"
)

func init() {
	casregistry.MustRegister(casregistry.Backend{
		Name:        "mem",
		Description: "In-memory CAS (contents lost on exit)",
		Usage:       casregistry.UsageCLI | casregistry.UsageDaemon,
		RegisterFlags: func(fs *flag.FlagSet) {
			// No configuration.
		},
		Open: func() (storage.CAS, func() error, error) {
			return New(), nil, nil
		},
	})
}
