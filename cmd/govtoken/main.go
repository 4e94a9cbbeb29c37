// Command govtoken is the operator CLI: key management, delegation signing,
// and snapshot/attestation handling.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ipfs/go-cid"

	"xdao.co/govtoken/keys"
	"xdao.co/govtoken/sigauth"
	"xdao.co/govtoken/snapshot"
	"xdao.co/govtoken/storage"
	"xdao.co/govtoken/storage/casregistry"
	"xdao.co/govtoken/token"

	_ "xdao.co/govtoken/storage/localfs"
	_ "xdao.co/govtoken/storage/memcas"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "key":
		return cmdKey(args[1:], out, errOut)
	case "digest":
		return cmdDigest(args[1:], out, errOut)
	case "sign-delegation":
		return cmdSignDelegation(args[1:], out, errOut)
	case "recover":
		return cmdRecover(args[1:], out, errOut)
	case "snapshot-cid":
		return cmdSnapshotCID(args[1:], out, errOut)
	case "attest-snapshot":
		return cmdAttestSnapshot(args[1:], out, errOut)
	case "verify-attestation":
		return cmdVerifyAttestation(args[1:], out, errOut)
	case "cas":
		return cmdCAS(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "govtoken: governance ledger operator CLI")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  govtoken key init --name <name> [--seed-hex <64hex>] [--passphrase <p>] [--force]")
	fmt.Fprintln(w, "  govtoken key derive --from <name> --role <role> [--passphrase <p>] [--force]")
	fmt.Fprintln(w, "  govtoken key list")
	fmt.Fprintln(w, "  govtoken key address --name <name> [--passphrase <p>]")
	fmt.Fprintln(w, "  govtoken digest --chain-id <n> --contract <0x..> --delegatee <0x..> --nonce <n> --expiry <n> [--domain-name <s>]")
	fmt.Fprintln(w, "  govtoken sign-delegation <digest flags> (--seed-hex <64hex> | --signer <name> [--passphrase <p>] | --key-file <path>)")
	fmt.Fprintln(w, "  govtoken recover <digest flags> --sig <130hex>")
	fmt.Fprintln(w, "  govtoken snapshot-cid <file>")
	fmt.Fprintln(w, "  govtoken attest-snapshot --cid <CID> --height <n> --chain-id <n> --alg <ed25519|dilithium3> <seed source>")
	fmt.Fprintln(w, "  govtoken verify-attestation [--backend <name>] <file>")
	fmt.Fprintln(w, "  govtoken cas put|get|has --backend <name> ...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - --seed-hex must be 32 bytes (64 hex chars)")
	fmt.Fprintln(w, "  - keys live under ~/.xdao/govtoken/keys/<name> (0600 seed files)")
	fmt.Fprintln(w, "  - sign-delegation prints a 65-byte r||s||v signature in hex")
	fmt.Fprintln(w, "  - attest-snapshot writes the attestation JSON to stdout")
}

func openKeyStore(errOut io.Writer) (*keys.KeyStore, bool) {
	ks, err := keys.Open(os.Getenv("GOVTOKEN_KEY_DIR"))
	if err != nil {
		fmt.Fprintf(errOut, "open key store: %v\n", err)
		return nil, false
	}
	return ks, true
}

func cmdKey(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: govtoken key <init|derive|list|address> ...")
		return 2
	}
	ks, ok := openKeyStore(errOut)
	if !ok {
		return 1
	}

	switch args[0] {
	case "init":
		fs := flag.NewFlagSet("key init", flag.ContinueOnError)
		fs.SetOutput(errOut)
		name := fs.String("name", "", "key identifier")
		seedHex := fs.String("seed-hex", "", "32-byte seed in hex (random if omitted)")
		passphrase := fs.String("passphrase", "", "seal the seed file with this passphrase")
		force := fs.Bool("force", false, "overwrite an existing key")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		var seed []byte
		if *seedHex != "" {
			var err error
			seed, err = keys.ParseSeedHex(*seedHex)
			if err != nil {
				fmt.Fprintf(errOut, "invalid --seed-hex: %v\n", err)
				return 2
			}
		} else {
			seed = make([]byte, keys.SeedSize)
			if _, err := rand.Read(seed); err != nil {
				fmt.Fprintf(errOut, "generate seed: %v\n", err)
				return 1
			}
		}
		address, path, err := ks.InitializeSigner(*name, seed, *passphrase, *force)
		if err != nil {
			fmt.Fprintf(errOut, "key init: %v\n", err)
			return 1
		}
		fmt.Fprintf(out, "%s\t%s\n", address.Hex(), path)
		return 0

	case "derive":
		fs := flag.NewFlagSet("key derive", flag.ContinueOnError)
		fs.SetOutput(errOut)
		from := fs.String("from", "", "signer identifier")
		role := fs.String("role", "", "attestor role")
		passphrase := fs.String("passphrase", "", "passphrase for sealed seed files")
		force := fs.Bool("force", false, "overwrite an existing role key")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		path, err := ks.DeriveAttestor(*from, *role, *passphrase, *force)
		if err != nil {
			fmt.Fprintf(errOut, "key derive: %v\n", err)
			return 1
		}
		fmt.Fprintln(out, path)
		return 0

	case "list":
		entries, err := ks.ListKeys()
		if err != nil {
			fmt.Fprintf(errOut, "key list: %v\n", err)
			return 1
		}
		for _, e := range entries {
			if len(e.Roles) == 0 {
				fmt.Fprintln(out, e.Identifier)
				continue
			}
			fmt.Fprintf(out, "%s\t%s\n", e.Identifier, strings.Join(e.Roles, ","))
		}
		return 0

	case "address":
		fs := flag.NewFlagSet("key address", flag.ContinueOnError)
		fs.SetOutput(errOut)
		name := fs.String("name", "", "key identifier")
		passphrase := fs.String("passphrase", "", "passphrase for sealed seed files")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		address, err := ks.SignerAddress(*name, *passphrase)
		if err != nil {
			fmt.Fprintf(errOut, "key address: %v\n", err)
			return 1
		}
		fmt.Fprintln(out, address.Hex())
		return 0

	default:
		fmt.Fprintf(errOut, "unknown key subcommand: %s\n", args[0])
		return 2
	}
}

// delegationFlags are shared by digest, sign-delegation, and recover.
type delegationFlags struct {
	domainName string
	chainID    uint64
	contract   string
	delegatee  string
	nonce      uint64
	expiry     uint64
}

func (df *delegationFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&df.domainName, "domain-name", token.DefaultDomainName, "signing domain name")
	fs.Uint64Var(&df.chainID, "chain-id", 1, "chain identifier")
	fs.StringVar(&df.contract, "contract", "", "ledger contract address (0x hex)")
	fs.StringVar(&df.delegatee, "delegatee", "", "delegatee address (0x hex)")
	fs.Uint64Var(&df.nonce, "nonce", 0, "signer nonce")
	fs.Uint64Var(&df.expiry, "expiry", 0, "signature expiry (Unix seconds)")
}

func (df *delegationFlags) build(errOut io.Writer) (sigauth.Domain, sigauth.Delegation, bool) {
	contract, err := token.ParseAddress(df.contract)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --contract: %v\n", err)
		return sigauth.Domain{}, sigauth.Delegation{}, false
	}
	delegatee, err := token.ParseAddress(df.delegatee)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --delegatee: %v\n", err)
		return sigauth.Domain{}, sigauth.Delegation{}, false
	}
	d := sigauth.Domain{Name: df.domainName, ChainID: df.chainID, Contract: [20]byte(contract)}
	p := sigauth.Delegation{Delegatee: [20]byte(delegatee), Nonce: df.nonce, Expiry: df.expiry}
	return d, p, true
}

func cmdDigest(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("digest", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var df delegationFlags
	df.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	d, p, ok := df.build(errOut)
	if !ok {
		return 2
	}
	fmt.Fprintln(out, hex.EncodeToString(sigauth.Digest(d, p)))
	return 0
}

func cmdSignDelegation(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("sign-delegation", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var df delegationFlags
	df.register(fs)
	seedHex := fs.String("seed-hex", "", "32-byte seed in hex")
	signer := fs.String("signer", "", "key store identifier")
	keyFile := fs.String("key-file", "", "explicit seed file")
	passphrase := fs.String("passphrase", "", "passphrase for sealed seed files")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	d, p, ok := df.build(errOut)
	if !ok {
		return 2
	}

	ks, ok := openKeyStore(errOut)
	if !ok {
		return 1
	}
	seed, err := ks.LoadSeed(*seedHex, *signer, "", *keyFile, *passphrase)
	if err != nil {
		fmt.Fprintf(errOut, "load signer: %v\n", err)
		return 1
	}
	priv, err := ethcrypto.ToECDSA(seed)
	if err != nil {
		fmt.Fprintf(errOut, "invalid signer seed: %v\n", err)
		return 1
	}
	sig, err := sigauth.Sign(d, p, priv)
	if err != nil {
		fmt.Fprintf(errOut, "sign: %v\n", err)
		return 1
	}
	fmt.Fprintln(out, hex.EncodeToString(sig))
	return 0
}

func cmdRecover(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("recover", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var df delegationFlags
	df.register(fs)
	sigHex := fs.String("sig", "", "65-byte signature in hex")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	d, p, ok := df.build(errOut)
	if !ok {
		return 2
	}
	sig, err := hex.DecodeString(strings.TrimPrefix(*sigHex, "0x"))
	if err != nil {
		fmt.Fprintf(errOut, "invalid --sig: %v\n", err)
		return 2
	}
	signer, err := sigauth.RecoverSigner(sigauth.Digest(d, p), sig)
	if err != nil {
		fmt.Fprintf(errOut, "recover: %v\n", err)
		return 1
	}
	fmt.Fprintln(out, token.Address(signer).Hex())
	return 0
}

func cmdSnapshotCID(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("snapshot-cid", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: govtoken snapshot-cid <file>")
		return 2
	}
	b, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read snapshot: %v\n", err)
		return 1
	}
	if _, err := snapshot.Decode(b); err != nil {
		fmt.Fprintf(errOut, "invalid snapshot: %v\n", err)
		return 1
	}
	id, err := storage.SumCID(b)
	if err != nil {
		fmt.Fprintf(errOut, "cid: %v\n", err)
		return 1
	}
	fmt.Fprintln(out, id)
	return 0
}

func cmdAttestSnapshot(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("attest-snapshot", flag.ContinueOnError)
	fs.SetOutput(errOut)
	cidStr := fs.String("cid", "", "snapshot CID")
	height := fs.Uint64("height", 0, "snapshot block height")
	chainID := fs.Uint64("chain-id", 1, "chain identifier")
	alg := fs.String("alg", snapshot.AlgEd25519, "attestation algorithm")
	seedHex := fs.String("seed-hex", "", "32-byte seed in hex")
	signer := fs.String("signer", "", "key store identifier")
	signerRole := fs.String("signer-role", "", "role key of --signer to use")
	keyFile := fs.String("key-file", "", "explicit seed file")
	passphrase := fs.String("passphrase", "", "passphrase for sealed seed files")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	id, err := cid.Decode(*cidStr)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --cid: %v\n", err)
		return 2
	}
	ks, ok := openKeyStore(errOut)
	if !ok {
		return 1
	}
	seed, err := ks.LoadSeed(*seedHex, *signer, *signerRole, *keyFile, *passphrase)
	if err != nil {
		fmt.Fprintf(errOut, "load attestor: %v\n", err)
		return 1
	}

	var att snapshot.Attestation
	switch *alg {
	case snapshot.AlgEd25519:
		priv, err := keys.Ed25519FromSeed(seed)
		if err != nil {
			fmt.Fprintf(errOut, "attestor key: %v\n", err)
			return 1
		}
		att, err = snapshot.AttestEd25519(priv, id, *height, *chainID)
		if err != nil {
			fmt.Fprintf(errOut, "attest: %v\n", err)
			return 1
		}
	case snapshot.AlgDilithium3:
		priv, err := keys.Dilithium3FromSeed(seed)
		if err != nil {
			fmt.Fprintf(errOut, "attestor key: %v\n", err)
			return 1
		}
		att, err = snapshot.AttestDilithium3(priv, id, *height, *chainID)
		if err != nil {
			fmt.Fprintf(errOut, "attest: %v\n", err)
			return 1
		}
	default:
		fmt.Fprintf(errOut, "unknown --alg: %s\n", *alg)
		return 2
	}

	b, err := att.Canonical()
	if err != nil {
		fmt.Fprintf(errOut, "encode attestation: %v\n", err)
		return 1
	}
	_, _ = out.Write(b)
	return 0
}

func cmdVerifyAttestation(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("verify-attestation", flag.ContinueOnError)
	fs.SetOutput(errOut)
	backend := fs.String("backend", "", "also require the snapshot to exist in this CAS backend")
	casregistry.RegisterFlags(fs, casregistry.UsageCLI)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: govtoken verify-attestation [--backend <name>] <file>")
		return 2
	}
	b, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read attestation: %v\n", err)
		return 1
	}
	var att snapshot.Attestation
	if err := json.Unmarshal(b, &att); err != nil {
		fmt.Fprintf(errOut, "invalid attestation: %v\n", err)
		return 1
	}
	if err := att.Verify(); err != nil {
		fmt.Fprintf(errOut, "verify: %v\n", err)
		return 1
	}

	if *backend != "" {
		cas, closeFn, err := casregistry.Open(*backend, casregistry.UsageCLI)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 2
		}
		if closeFn != nil {
			defer func() { _ = closeFn() }()
		}
		id, err := cid.Decode(att.SnapshotCID)
		if err != nil {
			fmt.Fprintf(errOut, "attestation cid: %v\n", err)
			return 1
		}
		if !cas.Has(id) {
			fmt.Fprintf(errOut, "snapshot %s not present in backend %s\n", id, *backend)
			return 1
		}
	}

	fmt.Fprintf(out, "OK\t%s\t%s\theight=%d\tchain=%d\n", att.Alg, att.SnapshotCID, att.Height, att.ChainID)
	return 0
}

func cmdCAS(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: govtoken cas <put|get|has> --backend <name> ...")
		return 2
	}
	sub := args[0]
	fs := flag.NewFlagSet("cas "+sub, flag.ContinueOnError)
	fs.SetOutput(errOut)
	backend := fs.String("backend", "localfs", "CAS backend name")
	casregistry.RegisterFlags(fs, casregistry.UsageCLI)
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(errOut, "usage: govtoken cas %s --backend <name> <arg>\n", sub)
		return 2
	}

	cas, closeFn, err := casregistry.Open(*backend, casregistry.UsageCLI)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	if closeFn != nil {
		defer func() { _ = closeFn() }()
	}

	switch sub {
	case "put":
		b, err := os.ReadFile(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(errOut, "read: %v\n", err)
			return 1
		}
		id, err := cas.Put(b)
		if err != nil {
			fmt.Fprintf(errOut, "put: %v\n", err)
			return 1
		}
		fmt.Fprintln(out, id)
		return 0
	case "get":
		id, err := cid.Decode(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(errOut, "invalid cid: %v\n", err)
			return 2
		}
		b, err := cas.Get(id)
		if err != nil {
			fmt.Fprintf(errOut, "get: %v\n", err)
			return 1
		}
		_, _ = out.Write(b)
		return 0
	case "has":
		id, err := cid.Decode(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(errOut, "invalid cid: %v\n", err)
			return 2
		}
		fmt.Fprintln(out, cas.Has(id))
		return 0
	default:
		fmt.Fprintf(errOut, "unknown cas subcommand: %s\n", sub)
		return 2
	}
}
