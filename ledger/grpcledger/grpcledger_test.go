package grpcledger

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"verdin.dev/verdin/clvm"
	"verdin.dev/verdin/keys"
	"verdin.dev/verdin/layers"
	"verdin.dev/verdin/ledger"
	"verdin.dev/verdin/storage"
	"verdin.dev/verdin/storage/memstore"
	"verdin.dev/verdin/types"
)

func newTestClient(t *testing.T) (*Client, *ledger.Simulator) {
	t.Helper()

	var genesis types.Bytes32
	genesis[0] = 0x11
	sim, err := ledger.New(ledger.Options{Store: memstore.New(), GenesisChallenge: genesis})
	if err != nil {
		t.Fatalf("ledger.New: %v", err)
	}

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	RegisterLedgerServer(srv, &Server{Ledger: sim})

	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	dialer := func(ctx context.Context, s string) (net.Conn, error) { return lis.Dial() }
	cc, err := grpc.DialContext(
		context.Background(),
		"bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("DialContext: %v", err)
	}
	t.Cleanup(func() { _ = cc.Close() })

	return &Client{cc: cc, client: NewLedgerClient(cc), Timeout: 2 * time.Second}, sim
}

func TestGRPCLedger_RoundTrip(t *testing.T) {
	client, sim := newTestClient(t)
	ctx := context.Background()

	rootSeed := bytes.Repeat([]byte{3}, keys.SeedSize)
	priv, err := keys.SpendKey(rootSeed, 0)
	if err != nil {
		t.Fatalf("SpendKey: %v", err)
	}
	p2 := layers.P2Layer{PublicKey: priv.PublicKey()}
	p2Hash, err := p2.TreeHash()
	if err != nil {
		t.Fatalf("TreeHash: %v", err)
	}

	coin, err := client.MintCoin(ctx, p2Hash, 10)
	if err != nil {
		t.Fatalf("MintCoin: %v", err)
	}
	if coin.PuzzleHash != p2Hash || coin.Amount != 10 {
		t.Fatalf("unexpected minted coin: %+v", coin)
	}

	unspent, err := client.UnspentCoins(ctx)
	if err != nil {
		t.Fatalf("UnspentCoins: %v", err)
	}
	if len(unspent) != 1 || unspent[0] != coin {
		t.Fatalf("unexpected unspent list: %+v", unspent)
	}

	st, err := client.CoinState(ctx, coin.ID())
	if err != nil {
		t.Fatalf("CoinState: %v", err)
	}
	if st.Coin != coin || st.Spent() {
		t.Fatalf("unexpected coin state: %+v", st)
	}

	spend, err := p2.Solve(coin, layers.P2Solution{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	solution, err := clvm.Deserialize(spend.Solution)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	digest := keys.SpendDigest(sim.GenesisChallenge(), coin.ID(), clvm.TreeHash(solution))
	sig, err := keys.SignSpend(priv, digest)
	if err != nil {
		t.Fatalf("SignSpend: %v", err)
	}
	agg, err := keys.AggregateSignatures([][]byte{sig})
	if err != nil {
		t.Fatalf("AggregateSignatures: %v", err)
	}

	created, err := client.PushBundle(ctx, types.SpendBundle{
		Spends:    []types.CoinSpend{spend},
		Signature: agg,
	})
	if err != nil {
		t.Fatalf("PushBundle: %v", err)
	}
	if len(created) != 0 {
		t.Fatalf("bare spend should create no coins, got %+v", created)
	}

	st, err = client.CoinState(ctx, coin.ID())
	if err != nil {
		t.Fatalf("CoinState(2): %v", err)
	}
	if !st.Spent() {
		t.Fatalf("coin should be spent")
	}
}

func TestGRPCLedger_NotFoundMapsToSentinel(t *testing.T) {
	client, _ := newTestClient(t)

	var missing types.Bytes32
	missing[0] = 0xFF
	_, err := client.CoinState(context.Background(), missing)
	if !storage.IsNotFound(err) {
		t.Fatalf("CoinState missing: got %v want coin-not-found", err)
	}
}

func TestGRPCLedger_RejectsMalformedPayloads(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	if _, err := client.PushBundle(ctx, types.SpendBundle{}); err == nil {
		t.Fatalf("empty bundle should be rejected")
	}
}
