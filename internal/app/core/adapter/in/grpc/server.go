package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	ggrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
	grpcpool "github.com/JoeShih716/go-bank-ledger/pkg/grpc"
)

type GrpcServer struct {
	core *usecase.CoreUseCase
}

func NewGrpcServer(core *usecase.CoreUseCase) *GrpcServer {
	return &GrpcServer{
		core: core,
	}
}

func (s *GrpcServer) OpenAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	initial, err := decimalField(req, fieldBalance)
	if err != nil {
		return nil, toStatus(err)
	}
	fields := req.GetFields()
	acc, err := s.core.OpenAccount(ctx,
		fields[fieldFirstName].GetStringValue(),
		fields[fieldLastName].GetStringValue(),
		initial,
	)
	if err != nil {
		return nil, toStatus(err)
	}
	return accountResponse(acc)
}

func (s *GrpcServer) BalanceEnquiry(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	number, err := numberField(req, fieldAccountNumber)
	if err != nil {
		return nil, toStatus(err)
	}
	acc, err := s.core.BalanceEnquiry(ctx, number)
	if err != nil {
		return nil, toStatus(err)
	}
	return accountResponse(acc)
}

func (s *GrpcServer) Deposit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	number, amount, err := numberAndAmount(req)
	if err != nil {
		return nil, toStatus(err)
	}
	acc, err := s.core.Deposit(ctx, number, amount)
	if err != nil {
		return nil, toStatus(err)
	}
	return accountResponse(acc)
}

func (s *GrpcServer) Withdraw(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	number, amount, err := numberAndAmount(req)
	if err != nil {
		return nil, toStatus(err)
	}
	acc, err := s.core.Withdraw(ctx, number, amount)
	if err != nil {
		return nil, toStatus(err)
	}
	return accountResponse(acc)
}

// CloseAccount 回傳結清前的帳戶狀態
func (s *GrpcServer) CloseAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	number, err := numberField(req, fieldAccountNumber)
	if err != nil {
		return nil, toStatus(err)
	}
	acc, err := s.core.CloseAccount(ctx, number)
	if err != nil {
		return nil, toStatus(err)
	}
	return accountResponse(acc)
}

func (s *GrpcServer) ListAccounts(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	list := make([]any, 0)
	for acc := range s.core.ShowAllAccounts(ctx) {
		list = append(list, accountFields(acc))
	}
	resp, err := structpb.NewStruct(map[string]any{fieldAccounts: list})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return resp, nil
}

func numberAndAmount(req *structpb.Struct) (int64, decimal.Decimal, error) {
	number, err := numberField(req, fieldAccountNumber)
	if err != nil {
		return 0, decimal.Zero, err
	}
	amount, err := decimalField(req, fieldAmount)
	if err != nil {
		return 0, decimal.Zero, err
	}
	return number, amount, nil
}

func accountResponse(acc domain.Account) (*structpb.Struct, error) {
	resp, err := structpb.NewStruct(accountFields(acc))
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return resp, nil
}

// toStatus 將 domain 錯誤轉為 gRPC status
func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrAccountNumbersExhausted):
		return status.Error(codes.ResourceExhausted, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// UnaryLoggingInterceptor 記錄每一次呼叫的方法、耗時與結果
func UnaryLoggingInterceptor(log *slog.Logger) ggrpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *ggrpc.UnaryServerInfo, handler ggrpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		attrs := []any{"method", info.FullMethod, "elapsed", time.Since(start), "code", status.Code(err).String()}
		if id := grpcpool.RequestID(ctx); id != "" {
			attrs = append(attrs, "request_id", id)
		}
		if err != nil && status.Code(err) == codes.Internal {
			log.Error("grpc call failed", append(attrs, "error", err)...)
		} else {
			log.Info("grpc call", attrs...)
		}
		return resp, err
	}
}

var _ LedgerServer = (*GrpcServer)(nil)
