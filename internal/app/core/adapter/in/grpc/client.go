package grpc

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	ggrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
)

// Client 帳本服務的 gRPC 客戶端
// 遠端錯誤會轉回 domain 錯誤，呼叫端可用 errors.Is 判斷
type Client struct {
	conn ggrpc.ClientConnInterface
}

func NewClient(conn ggrpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

func (c *Client) OpenAccount(ctx context.Context, firstName, lastName string, initialBalance decimal.Decimal) (domain.Account, error) {
	return c.account(ctx, "OpenAccount", map[string]any{
		fieldFirstName: firstName,
		fieldLastName:  lastName,
		fieldBalance:   initialBalance.String(),
	})
}

func (c *Client) BalanceEnquiry(ctx context.Context, accountNumber int64) (domain.Account, error) {
	return c.account(ctx, "BalanceEnquiry", map[string]any{
		fieldAccountNumber: strconv.FormatInt(accountNumber, 10),
	})
}

func (c *Client) Deposit(ctx context.Context, accountNumber int64, amount decimal.Decimal) (domain.Account, error) {
	return c.account(ctx, "Deposit", map[string]any{
		fieldAccountNumber: strconv.FormatInt(accountNumber, 10),
		fieldAmount:        amount.String(),
	})
}

func (c *Client) Withdraw(ctx context.Context, accountNumber int64, amount decimal.Decimal) (domain.Account, error) {
	return c.account(ctx, "Withdraw", map[string]any{
		fieldAccountNumber: strconv.FormatInt(accountNumber, 10),
		fieldAmount:        amount.String(),
	})
}

func (c *Client) CloseAccount(ctx context.Context, accountNumber int64) (domain.Account, error) {
	return c.account(ctx, "CloseAccount", map[string]any{
		fieldAccountNumber: strconv.FormatInt(accountNumber, 10),
	})
}

func (c *Client) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	resp, err := c.invoke(ctx, "ListAccounts", map[string]any{})
	if err != nil {
		return nil, err
	}
	values := resp.GetFields()[fieldAccounts].GetListValue().GetValues()
	accounts := make([]domain.Account, 0, len(values))
	for _, v := range values {
		acc, err := accountFromStruct(v.GetStructValue())
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

func (c *Client) account(ctx context.Context, method string, req map[string]any) (domain.Account, error) {
	resp, err := c.invoke(ctx, method, req)
	if err != nil {
		return domain.Account{}, err
	}
	return accountFromStruct(resp)
}

func (c *Client) invoke(ctx context.Context, method string, req map[string]any) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, fullMethod(method), in, out); err != nil {
		return nil, fromStatus(err)
	}
	return out, nil
}

// fromStatus 將 gRPC status 轉回 domain 錯誤
func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.NotFound:
		return domain.ErrAccountNotFound
	case codes.FailedPrecondition:
		return domain.ErrInsufficientFunds
	case codes.ResourceExhausted:
		return domain.ErrAccountNumbersExhausted
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, st.Message())
	default:
		return err
	}
}
