package ipfs

import (
	"flag"

	"verdin.dev/verdin/storage"
	"verdin.dev/verdin/storage/casregistry"
)

var (
	flagIPFSBin string
)

func init() {
	casregistry.MustRegister(casregistry.Backend{
		Name:        "ipfs",
		Description: "Kubo CLI-backed reveal store (local repo)",
		Usage:       casregistry.UsageCLI | casregistry.UsageDaemon,
		RegisterFlags: func(fs *flag.FlagSet) {
			fs.StringVar(&flagIPFSBin, "ipfs-bin", "", "Path to the ipfs binary (default: ipfs from PATH)")
		},
		Open: func() (storage.CAS, func() error, error) {
			return New(Options{Bin: flagIPFSBin}), nil, nil
		},
	})
}
