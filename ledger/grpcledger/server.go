package grpcledger

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"verdin.dev/verdin/ledger"
	"verdin.dev/verdin/storage"
	"verdin.dev/verdin/types"
)

// Server exposes a ledger.Ledger over the Ledger gRPC service.
type Server struct {
	UnimplementedLedgerServer
	Ledger ledger.Ledger
}

func (s *Server) Mint(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	if s == nil || s.Ledger == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing ledger")
	}
	puzzleHash, amount, err := decodeMintRequest(in.GetValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	coin, err := s.Ledger.MintCoin(ctx, puzzleHash, amount)
	if err != nil {
		return nil, mapErr(err)
	}
	b, err := coin.MarshalBinary()
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return wrapperspb.Bytes(b), nil
}

func (s *Server) Push(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	if s == nil || s.Ledger == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing ledger")
	}
	bundle, err := types.SpendBundleFromBytes(in.GetValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	created, err := s.Ledger.PushBundle(ctx, bundle)
	if err != nil {
		return nil, mapErr(err)
	}
	b, err := encodeCoinStates(created)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return wrapperspb.Bytes(b), nil
}

func (s *Server) CoinState(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	if s == nil || s.Ledger == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing ledger")
	}
	raw := in.GetValue()
	if len(raw) != coinIDRequestSize {
		return nil, status.Error(codes.InvalidArgument, "coin id must be 32 bytes")
	}
	coinID, err := types.Bytes32FromBytes(raw)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	st, err := s.Ledger.CoinState(ctx, coinID)
	if err != nil {
		return nil, mapErr(err)
	}
	b, err := st.MarshalBinary()
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return wrapperspb.Bytes(b), nil
}

func (s *Server) Unspent(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	if s == nil || s.Ledger == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing ledger")
	}
	if len(in.GetValue()) != 0 {
		return nil, status.Error(codes.InvalidArgument, "unspent request takes no payload")
	}
	coins, err := s.Ledger.UnspentCoins(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	b, err := encodeCoins(coins)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return wrapperspb.Bytes(b), nil
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if storage.IsNotFound(err) {
		return status.Error(codes.NotFound, storage.ErrCoinNotFound.Error())
	}
	return status.Error(codes.FailedPrecondition, err.Error())
}
