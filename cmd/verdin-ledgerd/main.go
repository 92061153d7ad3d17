package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"google.golang.org/grpc"

	"verdin.dev/verdin/ledger"
	"verdin.dev/verdin/ledger/grpcledger"
	"verdin.dev/verdin/storage"
	"verdin.dev/verdin/storage/casregistry"
	"verdin.dev/verdin/storage/memstore"
	"verdin.dev/verdin/storage/sqlitestore"
	"verdin.dev/verdin/types"

	_ "verdin.dev/verdin/storage/ipfs"
	_ "verdin.dev/verdin/storage/localfs"
)

func main() {
	fs := flag.NewFlagSet("verdin-ledgerd", flag.ExitOnError)
	listen := fs.String("listen", "127.0.0.1:7788", "listen address")
	storePath := fs.String("store", "", "SQLite coin store path (empty: in-memory store)")
	genesisHex := fs.String("genesis", "", "genesis challenge (64 hex chars; empty: all zeros)")
	revealBackend := fs.String("reveal-backend", "", "reveal store backend name (empty: no reveal archive)")
	listBackends := fs.Bool("list-backends", false, "List supported reveal backends and exit")

	casregistry.RegisterFlags(fs, casregistry.UsageDaemon)

	_ = fs.Parse(os.Args[1:])
	if *listBackends {
		for _, b := range casregistry.List(casregistry.UsageDaemon) {
			if b.Description == "" {
				_, _ = fmt.Fprintf(os.Stdout, "%s\n", b.Name)
				continue
			}
			_, _ = fmt.Fprintf(os.Stdout, "%s\t%s\n", b.Name, b.Description)
		}
		return
	}

	var genesis types.Bytes32
	if *genesisHex != "" {
		g, err := types.Bytes32FromHex(*genesisHex)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		genesis = g
	}

	var store storage.CoinStore
	if *storePath != "" {
		s, err := sqlitestore.Open(*storePath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		defer s.Close()
		store = s
	} else {
		store = memstore.New()
	}

	var reveals storage.CAS
	if *revealBackend != "" {
		cas, closeFn, err := casregistry.Open(*revealBackend, casregistry.UsageDaemon)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		if closeFn != nil {
			defer closeFn()
		}
		reveals = cas
	}

	sim, err := ledger.New(ledger.Options{
		Store:            store,
		Reveals:          reveals,
		GenesisChallenge: genesis,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer lis.Close()

	s := grpc.NewServer()
	grpcledger.RegisterLedgerServer(s, &grpcledger.Server{Ledger: sim})

	fmt.Fprintf(os.Stderr, "verdin-ledgerd listening on %s\n", lis.Addr().String())
	if err := s.Serve(lis); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
