package grpcgov

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// LedgerQueryClient is the client API for the LedgerQuery gRPC service.
type LedgerQueryClient interface {
	TotalSupply(ctx context.Context, opts ...grpc.CallOption) (string, error)
	Height(ctx context.Context, opts ...grpc.CallOption) (uint64, error)
	BalanceOf(ctx context.Context, account string, opts ...grpc.CallOption) (string, error)
	Delegates(ctx context.Context, account string, opts ...grpc.CallOption) (string, error)
	GetCurrentVotes(ctx context.Context, account string, opts ...grpc.CallOption) (string, error)
	Allowance(ctx context.Context, owner, spender string, opts ...grpc.CallOption) (string, error)
	GetPriorVotes(ctx context.Context, account string, block uint64, opts ...grpc.CallOption) (string, error)
}

type ledgerQueryClient struct{ cc grpc.ClientConnInterface }

func NewLedgerQueryClient(cc grpc.ClientConnInterface) LedgerQueryClient {
	return &ledgerQueryClient{cc: cc}
}

func (c *ledgerQueryClient) invokeString(ctx context.Context, method string, in interface{}, opts []grpc.CallOption) (string, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/"+method, in, out, opts...); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}

func (c *ledgerQueryClient) TotalSupply(ctx context.Context, opts ...grpc.CallOption) (string, error) {
	return c.invokeString(ctx, "TotalSupply", new(emptypb.Empty), opts)
}

func (c *ledgerQueryClient) Height(ctx context.Context, opts ...grpc.CallOption) (uint64, error) {
	out := new(wrapperspb.UInt64Value)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Height", new(emptypb.Empty), out, opts...); err != nil {
		return 0, err
	}
	return out.GetValue(), nil
}

func (c *ledgerQueryClient) BalanceOf(ctx context.Context, account string, opts ...grpc.CallOption) (string, error) {
	return c.invokeString(ctx, "BalanceOf", wrapperspb.String(account), opts)
}

func (c *ledgerQueryClient) Delegates(ctx context.Context, account string, opts ...grpc.CallOption) (string, error) {
	return c.invokeString(ctx, "Delegates", wrapperspb.String(account), opts)
}

func (c *ledgerQueryClient) GetCurrentVotes(ctx context.Context, account string, opts ...grpc.CallOption) (string, error) {
	return c.invokeString(ctx, "GetCurrentVotes", wrapperspb.String(account), opts)
}

func (c *ledgerQueryClient) Allowance(ctx context.Context, owner, spender string, opts ...grpc.CallOption) (string, error) {
	in, err := structpb.NewStruct(map[string]interface{}{"owner": owner, "spender": spender})
	if err != nil {
		return "", err
	}
	return c.invokeString(ctx, "Allowance", in, opts)
}

func (c *ledgerQueryClient) GetPriorVotes(ctx context.Context, account string, block uint64, opts ...grpc.CallOption) (string, error) {
	in, err := structpb.NewStruct(map[string]interface{}{"account": account, "block": float64(block)})
	if err != nil {
		return "", err
	}
	return c.invokeString(ctx, "GetPriorVotes", in, opts)
}
