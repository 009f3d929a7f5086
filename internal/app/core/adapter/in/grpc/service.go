package grpc

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
	ggrpc "google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
)

// ServiceName gRPC 服務名稱
// 訊息一律使用 google.protobuf.Struct，不需要產生 proto 程式碼
const ServiceName = "ledger.v1.AccountLedger"

// 訊息欄位
const (
	fieldAccountNumber = "account_number"
	fieldFirstName     = "first_name"
	fieldLastName      = "last_name"
	fieldBalance       = "balance"
	fieldAmount        = "amount"
	fieldAccounts      = "accounts"
)

// LedgerServer 帳本 gRPC 服務介面
type LedgerServer interface {
	OpenAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	BalanceEnquiry(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Deposit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Withdraw(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CloseAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListAccounts(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc 手寫的服務描述，等同 protoc-gen-go-grpc 產生的 _ServiceDesc
var ServiceDesc = ggrpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LedgerServer)(nil),
	Methods: []ggrpc.MethodDesc{
		unaryMethod("OpenAccount", LedgerServer.OpenAccount),
		unaryMethod("BalanceEnquiry", LedgerServer.BalanceEnquiry),
		unaryMethod("Deposit", LedgerServer.Deposit),
		unaryMethod("Withdraw", LedgerServer.Withdraw),
		unaryMethod("CloseAccount", LedgerServer.CloseAccount),
		unaryMethod("ListAccounts", LedgerServer.ListAccounts),
	},
	Streams:  []ggrpc.StreamDesc{},
	Metadata: "ledger/v1/ledger.proto",
}

// Register 將 LedgerServer 註冊到 gRPC Server
func Register(s ggrpc.ServiceRegistrar, srv LedgerServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

type unaryCall func(LedgerServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryMethod(name string, call unaryCall) ggrpc.MethodDesc {
	return ggrpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor ggrpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(LedgerServer), ctx, in)
			}
			info := &ggrpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod(name),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(LedgerServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func accountFields(acc domain.Account) map[string]any {
	return map[string]any{
		fieldAccountNumber: strconv.FormatInt(acc.Number(), 10),
		fieldFirstName:     acc.FirstName(),
		fieldLastName:      acc.LastName(),
		fieldBalance:       acc.Balance().String(),
	}
}

func accountFromStruct(s *structpb.Struct) (domain.Account, error) {
	number, err := numberField(s, fieldAccountNumber)
	if err != nil {
		return domain.Account{}, err
	}
	balance, err := decimalField(s, fieldBalance)
	if err != nil {
		return domain.Account{}, err
	}
	fields := s.GetFields()
	return *domain.NewAccount(number,
		fields[fieldFirstName].GetStringValue(),
		fields[fieldLastName].GetStringValue(),
		balance,
	), nil
}

// maxExactNumber 大於此值的 float64 無法精確表示整數，帳號需以字串傳遞
const maxExactNumber = 1 << 53

// numberField 讀取正整數帳號
// 接受十進位字串 (完整 int64 範圍) 或不超過 2^53 的數字
func numberField(s *structpb.Struct, key string) (int64, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, key)
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		n, err := strconv.ParseInt(kind.StringValue, 10, 64)
		if err != nil || n < 1 {
			return 0, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		return n, nil
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if n < 1 || n != math.Trunc(n) || n > maxExactNumber {
			return 0, fmt.Errorf("%w: %s must be a positive integer not above 2^53", domain.ErrInvalidInput, key)
		}
		return int64(n), nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number or a decimal string", domain.ErrInvalidInput, key)
	}
}

// decimalField 讀取以字串表示的金額
func decimalField(s *structpb.Struct, key string) (decimal.Decimal, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, key)
	}
	d, err := decimal.NewFromString(v.GetStringValue())
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}
	return d, nil
}
