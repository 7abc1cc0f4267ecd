package apperror

import (
	"google.golang.org/grpc/codes"
)

// Коды завершения процесса
const (
	ExitOK                 = 0
	ExitFailure            = 1
	ExitInvalidArgument    = 2
	ExitFailedPrecondition = 3
	ExitDeadline           = 4
	ExitUnavailable        = 69 // EX_UNAVAILABLE
	ExitInternal           = 70 // EX_SOFTWARE
)

// ExitCode maps an error onto a process exit code through its gRPC code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	switch GRPCCode(err) {
	case codes.InvalidArgument, codes.NotFound:
		return ExitInvalidArgument
	case codes.FailedPrecondition:
		return ExitFailedPrecondition
	case codes.DeadlineExceeded, codes.Canceled:
		return ExitDeadline
	case codes.Unavailable:
		return ExitUnavailable
	case codes.Internal, codes.DataLoss:
		return ExitInternal
	default:
		return ExitFailure
	}
}
