package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"verdin.dev/verdin/cidutil"
	"verdin.dev/verdin/clvm"
	"verdin.dev/verdin/keys"
	"verdin.dev/verdin/layers"
	"verdin.dev/verdin/ledger/grpcledger"
	"verdin.dev/verdin/puzzles"
	"verdin.dev/verdin/types"
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
	case "inspect":
		return cmdInspect(args[1:], out, errOut)
	case "hash":
		return cmdHash(args[1:], out, errOut)
	case "key":
		return cmdKey(args[1:], out, errOut)
	case "ledger":
		return cmdLedger(args[1:], out, errOut)
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
	fmt.Fprintln(w, "verdin: singleton driver CLI")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  verdin inspect (--hex <hex> | --file <path>)")
	fmt.Fprintln(w, "  verdin hash (--hex <hex> | --file <path>)")
	fmt.Fprintln(w, "  verdin key init --name <name> [--seed-hex <64hex>] [--force]")
	fmt.Fprintln(w, "  verdin key list")
	fmt.Fprintln(w, "  verdin key show --name <name> [--index <n>]")
	fmt.Fprintln(w, "  verdin ledger unspent --target <host:port>")
	fmt.Fprintln(w, "  verdin ledger state --target <host:port> --coin-id <64hex>")
	fmt.Fprintln(w, "  verdin ledger mint --target <host:port> --puzzle-hash <64hex> --amount <n>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - inspect takes a serialized puzzle reveal and reports which shipped")
	fmt.Fprintln(w, "    templates it matches (launcher, singleton, p2)")
	fmt.Fprintln(w, "  - --seed-hex must be 32 bytes (64 hex chars)")
	fmt.Fprintln(w, "  - keys are stored under ~/.verdin/keys/<name> (0600 seed files)")
}

// readProgram resolves the shared --hex/--file flags into raw reveal bytes.
func readProgram(hexArg, fileArg string, errOut io.Writer) ([]byte, bool) {
	switch {
	case hexArg != "" && fileArg != "":
		fmt.Fprintln(errOut, "provide --hex or --file, not both")
		return nil, false
	case hexArg != "":
		b, err := hex.DecodeString(strings.TrimSpace(hexArg))
		if err != nil {
			fmt.Fprintf(errOut, "bad hex: %v\n", err)
			return nil, false
		}
		return b, true
	case fileArg != "":
		b, err := os.ReadFile(fileArg)
		if err != nil {
			fmt.Fprintf(errOut, "read file: %v\n", err)
			return nil, false
		}
		return b, true
	default:
		fmt.Fprintln(errOut, "provide --hex or --file")
		return nil, false
	}
}

func cmdInspect(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(errOut)
	hexArg := fs.String("hex", "", "serialized puzzle reveal as hex")
	fileArg := fs.String("file", "", "file containing the serialized puzzle reveal")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	raw, ok := readProgram(*hexArg, *fileArg, errOut)
	if !ok {
		return 2
	}

	puzzle, err := clvm.Deserialize(raw)
	if err != nil {
		fmt.Fprintf(errOut, "invalid program: %v\n", err)
		return 1
	}

	treeHash := clvm.TreeHash(puzzle)
	id, err := cidutil.RevealCID(raw)
	if err != nil {
		fmt.Fprintf(errOut, "cid: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "tree-hash\t%s\n", treeHash)
	fmt.Fprintf(out, "reveal-cid\t%s\n", id)

	if treeHash == puzzles.LauncherPuzzleHash {
		fmt.Fprintln(out, "layer\tlauncher")
		return 0
	}

	sl, err := layers.SingletonCodec(layers.OpaqueCodec()).FromPuzzle(puzzle)
	if err != nil {
		fmt.Fprintf(errOut, "singleton probe: %v\n", err)
		return 1
	}
	if sl != nil {
		innerHash, err := sl.InnerPuzzleHash()
		if err != nil {
			fmt.Fprintf(errOut, "inner hash: %v\n", err)
			return 1
		}
		fmt.Fprintln(out, "layer\tsingleton")
		fmt.Fprintf(out, "launcher-id\t%s\n", sl.LauncherID)
		fmt.Fprintf(out, "inner-hash\t%s\n", innerHash)
		if p2, err := layers.P2FromPuzzle(sl.Inner.Program); err == nil && p2 != nil {
			pk, err := p2.PublicKey.MarshalBinary()
			if err == nil {
				fmt.Fprintf(out, "inner-layer\tp2\n")
				fmt.Fprintf(out, "public-key\t%s\n", hex.EncodeToString(pk))
			}
		}
		return 0
	}

	p2, err := layers.P2FromPuzzle(puzzle)
	if err != nil {
		fmt.Fprintf(errOut, "p2 probe: %v\n", err)
		return 1
	}
	if p2 != nil {
		pk, err := p2.PublicKey.MarshalBinary()
		if err != nil {
			fmt.Fprintf(errOut, "public key: %v\n", err)
			return 1
		}
		fmt.Fprintln(out, "layer\tp2")
		fmt.Fprintf(out, "public-key\t%s\n", hex.EncodeToString(pk))
		return 0
	}

	fmt.Fprintln(out, "layer\tunrecognized")
	return 0
}

func cmdHash(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("hash", flag.ContinueOnError)
	fs.SetOutput(errOut)
	hexArg := fs.String("hex", "", "serialized program as hex")
	fileArg := fs.String("file", "", "file containing the serialized program")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	raw, ok := readProgram(*hexArg, *fileArg, errOut)
	if !ok {
		return 2
	}

	puzzle, err := clvm.Deserialize(raw)
	if err != nil {
		fmt.Fprintf(errOut, "invalid program: %v\n", err)
		return 1
	}
	id, err := cidutil.RevealCID(raw)
	if err != nil {
		fmt.Fprintf(errOut, "cid: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "tree-hash\t%s\n", clvm.TreeHash(puzzle))
	fmt.Fprintf(out, "reveal-cid\t%s\n", id)
	return 0
}

func cmdKey(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: verdin key <init|list|show> ...")
		return 2
	}

	dir, err := keys.DefaultDirectory()
	if err != nil {
		fmt.Fprintf(errOut, "key store: %v\n", err)
		return 1
	}

	switch args[0] {
	case "init":
		fs := flag.NewFlagSet("key init", flag.ContinueOnError)
		fs.SetOutput(errOut)
		name := fs.String("name", "", "key name")
		seedHex := fs.String("seed-hex", "", "seed as 64 hex chars (empty: random)")
		force := fs.Bool("force", false, "overwrite an existing key")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if *name == "" {
			fmt.Fprintln(errOut, "missing --name")
			return 2
		}

		var seed []byte
		if *seedHex != "" {
			seed, err = hex.DecodeString(*seedHex)
			if err != nil || len(seed) != keys.SeedSize {
				fmt.Fprintln(errOut, "--seed-hex must be 64 hex chars")
				return 2
			}
		} else {
			seed = make([]byte, keys.SeedSize)
			if _, err := rand.Read(seed); err != nil {
				fmt.Fprintf(errOut, "random seed: %v\n", err)
				return 1
			}
		}

		store, err := keys.OpenStore(dir)
		if err != nil {
			fmt.Fprintf(errOut, "key store: %v\n", err)
			return 1
		}
		if err := store.Init(*name, seed, *force); err != nil {
			fmt.Fprintf(errOut, "init: %v\n", err)
			return 1
		}
		fmt.Fprintf(out, "initialized key %q\n", *name)
		return 0

	case "list":
		store, err := keys.OpenStore(dir)
		if err != nil {
			fmt.Fprintf(errOut, "key store: %v\n", err)
			return 1
		}
		names, err := store.List()
		if err != nil {
			fmt.Fprintf(errOut, "list: %v\n", err)
			return 1
		}
		for _, n := range names {
			fmt.Fprintln(out, n)
		}
		return 0

	case "show":
		fs := flag.NewFlagSet("key show", flag.ContinueOnError)
		fs.SetOutput(errOut)
		name := fs.String("name", "", "key name")
		index := fs.Uint("index", 0, "spend key index")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if *name == "" {
			fmt.Fprintln(errOut, "missing --name")
			return 2
		}

		store, err := keys.OpenStore(dir)
		if err != nil {
			fmt.Fprintf(errOut, "key store: %v\n", err)
			return 1
		}
		seed, err := store.Load(*name)
		if err != nil {
			fmt.Fprintf(errOut, "load: %v\n", err)
			return 1
		}
		priv, err := keys.SpendKey(seed, uint32(*index))
		if err != nil {
			fmt.Fprintf(errOut, "derive: %v\n", err)
			return 1
		}
		pk, err := priv.PublicKey().MarshalBinary()
		if err != nil {
			fmt.Fprintf(errOut, "public key: %v\n", err)
			return 1
		}
		p2 := layers.P2Layer{PublicKey: priv.PublicKey()}
		p2Hash, err := p2.TreeHash()
		if err != nil {
			fmt.Fprintf(errOut, "puzzle hash: %v\n", err)
			return 1
		}
		fmt.Fprintf(out, "public-key\t%s\n", hex.EncodeToString(pk))
		fmt.Fprintf(out, "puzzle-hash\t%s\n", p2Hash)
		return 0

	default:
		fmt.Fprintf(errOut, "unknown key subcommand: %s\n", args[0])
		return 2
	}
}

func cmdLedger(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: verdin ledger <unspent|state|mint> ...")
		return 2
	}

	fs := flag.NewFlagSet("ledger "+args[0], flag.ContinueOnError)
	fs.SetOutput(errOut)
	target := fs.String("target", "127.0.0.1:7788", "ledger daemon host:port")
	coinIDHex := fs.String("coin-id", "", "coin id (64 hex chars)")
	puzzleHashHex := fs.String("puzzle-hash", "", "puzzle hash (64 hex chars)")
	amount := fs.Uint64("amount", 0, "coin amount")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}

	client, err := grpcledger.Dial(*target, grpcledger.DialOptions{Timeout: 5 * time.Second})
	if err != nil {
		fmt.Fprintf(errOut, "dial: %v\n", err)
		return 1
	}
	defer client.Close()
	client.Timeout = 10 * time.Second

	ctx := context.Background()

	switch args[0] {
	case "unspent":
		coins, err := client.UnspentCoins(ctx)
		if err != nil {
			fmt.Fprintf(errOut, "unspent: %v\n", err)
			return 1
		}
		for _, c := range coins {
			fmt.Fprintf(out, "%s\t%s\t%d\n", c.ID(), c.PuzzleHash, c.Amount)
		}
		return 0

	case "state":
		if *coinIDHex == "" {
			fmt.Fprintln(errOut, "missing --coin-id")
			return 2
		}
		coinID, err := types.Bytes32FromHex(*coinIDHex)
		if err != nil {
			fmt.Fprintf(errOut, "bad --coin-id: %v\n", err)
			return 1
		}
		st, err := client.CoinState(ctx, coinID)
		if err != nil {
			fmt.Fprintf(errOut, "state: %v\n", err)
			return 1
		}
		fmt.Fprintf(out, "puzzle-hash\t%s\n", st.Coin.PuzzleHash)
		fmt.Fprintf(out, "amount\t%d\n", st.Coin.Amount)
		if st.CreatedHeight != nil {
			fmt.Fprintf(out, "created-height\t%d\n", *st.CreatedHeight)
		}
		if st.Spent() {
			fmt.Fprintf(out, "spent-height\t%d\n", *st.SpentHeight)
		} else {
			fmt.Fprintln(out, "spent\tfalse")
		}
		return 0

	case "mint":
		if *puzzleHashHex == "" {
			fmt.Fprintln(errOut, "missing --puzzle-hash")
			return 2
		}
		ph, err := types.Bytes32FromHex(*puzzleHashHex)
		if err != nil {
			fmt.Fprintf(errOut, "bad --puzzle-hash: %v\n", err)
			return 1
		}
		coin, err := client.MintCoin(ctx, ph, *amount)
		if err != nil {
			fmt.Fprintf(errOut, "mint: %v\n", err)
			return 1
		}
		fmt.Fprintf(out, "coin-id\t%s\n", coin.ID())
		return 0

	default:
		fmt.Fprintf(errOut, "unknown ledger subcommand: %s\n", args[0])
		return 2
	}
}
