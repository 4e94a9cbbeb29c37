// Command govtokend serves read-only ledger queries over gRPC.
//
// The ledger either starts from genesis flags or is restored from a snapshot
// held in a CAS backend. Snapshots of the running ledger can be written on
// shutdown with --snapshot-on-exit.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/holiman/uint256"
	"github.com/ipfs/go-cid"
	"google.golang.org/grpc"

	"xdao.co/govtoken/grpcgov"
	"xdao.co/govtoken/snapshot"
	"xdao.co/govtoken/storage"
	"xdao.co/govtoken/storage/casregistry"
	"xdao.co/govtoken/token"

	_ "xdao.co/govtoken/storage/localfs"
	_ "xdao.co/govtoken/storage/memcas"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("govtokend", flag.ExitOnError)
	listen := fs.String("listen", "127.0.0.1:7790", "listen address")
	backend := fs.String("backend", "", "CAS backend names, first is the write tier (required for --restore and --snapshot-on-exit)")
	listBackends := fs.Bool("list-backends", false, "List supported backends and exit")
	restore := fs.String("restore", "", "Snapshot CID to restore the ledger from")
	snapshotOnExit := fs.Bool("snapshot-on-exit", false, "Write a snapshot to the backend on shutdown")

	name := fs.String("name", "", "Signing domain name (defaults to "+token.DefaultDomainName+")")
	chainID := fs.Uint64("chain-id", 1, "Chain identifier bound into delegation signatures")
	contract := fs.String("contract", "", "Ledger contract address (0x hex)")
	holder := fs.String("holder", "", "Genesis holder address (0x hex)")
	supply := fs.String("supply", "", "Genesis supply (decimal)")
	genesisTime := fs.Uint64("genesis-time", 0, "Genesis block timestamp (Unix seconds)")

	casregistry.RegisterFlags(fs, casregistry.UsageDaemon)

	_ = fs.Parse(args)
	if *listBackends {
		for _, b := range casregistry.List(casregistry.UsageDaemon) {
			if b.Description == "" {
				fmt.Fprintf(os.Stdout, "%s\n", b.Name)
				continue
			}
			fmt.Fprintf(os.Stdout, "%s\t%s\n", b.Name, b.Description)
		}
		return 0
	}

	var cas storage.CAS
	if *backend != "" {
		var tiers []storage.CAS
		for _, name := range strings.Split(*backend, ",") {
			opened, closeFn, err := casregistry.Open(strings.TrimSpace(name), casregistry.UsageDaemon)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 2
			}
			if closeFn != nil {
				defer func() { _ = closeFn() }()
			}
			tiers = append(tiers, opened)
		}
		if len(tiers) == 1 {
			cas = tiers[0]
		} else {
			cas = storage.TieredCAS{Tiers: tiers}
		}
	}

	if *snapshotOnExit && cas == nil {
		fmt.Fprintln(os.Stderr, "--snapshot-on-exit requires --backend")
		return 2
	}

	ledger, err := buildLedger(cas, *restore, *name, *chainID, *contract, *holder, *supply, *genesisTime)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer lis.Close()

	s := grpc.NewServer()
	grpcgov.RegisterLedgerQueryServer(s, &grpcgov.Server{Ledger: ledger})

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		s.GracefulStop()
	}()

	fmt.Fprintf(os.Stderr, "govtokend listening on %s (chain=%d height=%d)\n",
		lis.Addr().String(), *chainID, ledger.Height())
	if err := s.Serve(lis); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *snapshotOnExit {
		id, err := snapshot.Write(cas, ledger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "snapshot: %v\n", err)
			return 1
		}
		fmt.Fprintf(os.Stderr, "govtokend snapshot %s (height=%d)\n", id, ledger.Height())
	}
	return 0
}

func buildLedger(cas storage.CAS, restore, name string, chainID uint64, contract, holder, supply string, genesisTime uint64) (*token.Ledger, error) {
	if restore != "" {
		if cas == nil {
			return nil, fmt.Errorf("--restore requires --backend")
		}
		id, err := cid.Decode(restore)
		if err != nil {
			return nil, fmt.Errorf("invalid --restore CID: %v", err)
		}
		return snapshot.Restore(cas, id)
	}

	if holder == "" || supply == "" {
		return nil, fmt.Errorf("genesis requires --holder and --supply (or --restore)")
	}
	holderAddr, err := token.ParseAddress(holder)
	if err != nil {
		return nil, fmt.Errorf("invalid --holder: %v", err)
	}
	contractAddr := token.ZeroAddress
	if contract != "" {
		contractAddr, err = token.ParseAddress(contract)
		if err != nil {
			return nil, fmt.Errorf("invalid --contract: %v", err)
		}
	}
	amount, err := uint256.FromDecimal(supply)
	if err != nil {
		return nil, fmt.Errorf("invalid --supply: %v", err)
	}
	return token.NewLedger(token.Config{
		Name:        name,
		ChainID:     chainID,
		Contract:    contractAddr,
		Holder:      holderAddr,
		Supply:      amount,
		GenesisTime: genesisTime,
	})
}
