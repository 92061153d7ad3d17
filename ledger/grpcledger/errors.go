package grpcledger

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"verdin.dev/verdin/storage"
)

func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.NotFound:
		return storage.ErrCoinNotFound
	case codes.InvalidArgument, codes.FailedPrecondition:
		// Server uses these for malformed payloads and rejected bundles.
		return errors.New(st.Message())
	default:
		return err
	}
}
