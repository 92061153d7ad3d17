package grpcledger

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"verdin.dev/verdin/ledger"
	"verdin.dev/verdin/types"
)

// Client implements ledger.Ledger over a Ledger gRPC service.
type Client struct {
	cc     *grpc.ClientConn
	client LedgerClient

	// Timeout applies per RPC when non-zero, on top of the caller's context.
	Timeout time.Duration
}

var _ ledger.Ledger = (*Client)(nil)

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int
}

func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc, client: NewLedgerClient(cc), Timeout: 0}, nil
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

func (c *Client) MintCoin(ctx context.Context, puzzleHash types.Bytes32, amount uint64) (types.Coin, error) {
	ctx, cancel := c.ctx(ctx)
	defer cancel()

	reply, err := c.client.Mint(ctx, wrapperspb.Bytes(encodeMintRequest(puzzleHash, amount)))
	if err != nil {
		return types.Coin{}, mapRPC(err)
	}
	return types.CoinFromBytes(reply.GetValue())
}

func (c *Client) PushBundle(ctx context.Context, bundle types.SpendBundle) ([]types.CoinState, error) {
	b, err := bundle.MarshalBinary()
	if err != nil {
		return nil, err
	}

	ctx, cancel := c.ctx(ctx)
	defer cancel()

	reply, err := c.client.Push(ctx, wrapperspb.Bytes(b))
	if err != nil {
		return nil, mapRPC(err)
	}
	return decodeCoinStates(reply.GetValue())
}

func (c *Client) CoinState(ctx context.Context, coinID types.Bytes32) (types.CoinState, error) {
	ctx, cancel := c.ctx(ctx)
	defer cancel()

	reply, err := c.client.CoinState(ctx, wrapperspb.Bytes(coinID.Bytes()))
	if err != nil {
		return types.CoinState{}, mapRPC(err)
	}
	return types.CoinStateFromBytes(reply.GetValue())
}

func (c *Client) UnspentCoins(ctx context.Context) ([]types.Coin, error) {
	ctx, cancel := c.ctx(ctx)
	defer cancel()

	reply, err := c.client.Unspent(ctx, wrapperspb.Bytes(nil))
	if err != nil {
		return nil, mapRPC(err)
	}
	return decodeCoins(reply.GetValue())
}

func (c *Client) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, c.Timeout)
}
