package grpcgov

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/govtoken/token"
)

// Server exposes a token.Ledger over the LedgerQuery gRPC service.
// All methods are reads; mutation stays on the owning process.
type Server struct {
	UnimplementedLedgerQueryServer
	Ledger *token.Ledger
}

func (s *Server) ready() error {
	if s == nil || s.Ledger == nil {
		return status.Error(codes.FailedPrecondition, "missing ledger")
	}
	return nil
}

func (s *Server) TotalSupply(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	_ = ctx
	if err := s.ready(); err != nil {
		return nil, err
	}
	return wrapperspb.String(s.Ledger.TotalSupply().String()), nil
}

func (s *Server) Height(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.UInt64Value, error) {
	_ = ctx
	if err := s.ready(); err != nil {
		return nil, err
	}
	return wrapperspb.UInt64(s.Ledger.Height()), nil
}

func (s *Server) BalanceOf(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	_ = ctx
	if err := s.ready(); err != nil {
		return nil, err
	}
	account, err := parseAddress(in.GetValue())
	if err != nil {
		return nil, err
	}
	return wrapperspb.String(s.Ledger.BalanceOf(account).String()), nil
}

func (s *Server) Delegates(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	_ = ctx
	if err := s.ready(); err != nil {
		return nil, err
	}
	account, err := parseAddress(in.GetValue())
	if err != nil {
		return nil, err
	}
	return wrapperspb.String(s.Ledger.Delegates(account).Hex()), nil
}

func (s *Server) GetCurrentVotes(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	_ = ctx
	if err := s.ready(); err != nil {
		return nil, err
	}
	account, err := parseAddress(in.GetValue())
	if err != nil {
		return nil, err
	}
	return wrapperspb.String(s.Ledger.GetCurrentVotes(account).String()), nil
}

// Allowance expects fields "owner" and "spender", both 0x addresses.
func (s *Server) Allowance(ctx context.Context, in *structpb.Struct) (*wrapperspb.StringValue, error) {
	_ = ctx
	if err := s.ready(); err != nil {
		return nil, err
	}
	owner, err := addressField(in, "owner")
	if err != nil {
		return nil, err
	}
	spender, err := addressField(in, "spender")
	if err != nil {
		return nil, err
	}
	return wrapperspb.String(s.Ledger.Allowance(owner, spender).String()), nil
}

// GetPriorVotes expects fields "account" (0x address) and "block" (number).
func (s *Server) GetPriorVotes(ctx context.Context, in *structpb.Struct) (*wrapperspb.StringValue, error) {
	_ = ctx
	if err := s.ready(); err != nil {
		return nil, err
	}
	account, err := addressField(in, "account")
	if err != nil {
		return nil, err
	}
	block, err := blockField(in, "block")
	if err != nil {
		return nil, err
	}
	votes, err := s.Ledger.GetPriorVotes(account, block)
	if err != nil {
		return nil, mapErr(err)
	}
	return wrapperspb.String(votes.String()), nil
}

func parseAddress(s string) (token.Address, error) {
	a, err := token.ParseAddress(s)
	if err != nil {
		return token.ZeroAddress, status.Errorf(codes.InvalidArgument, "invalid address %q", s)
	}
	return a, nil
}

func addressField(in *structpb.Struct, name string) (token.Address, error) {
	v, ok := in.GetFields()[name]
	if !ok {
		return token.ZeroAddress, status.Errorf(codes.InvalidArgument, "missing field %q", name)
	}
	return parseAddress(v.GetStringValue())
}

func blockField(in *structpb.Struct, name string) (uint64, error) {
	v, ok := in.GetFields()[name]
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "missing field %q", name)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue < 0 || n.NumberValue != float64(uint64(n.NumberValue)) {
		return 0, status.Errorf(codes.InvalidArgument, "field %q is not a block number", name)
	}
	return uint64(n.NumberValue), nil
}

// mapErr translates ledger errors into gRPC status codes. The rule identifier
// travels in the message so clients can distinguish failures precisely.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if rule := token.RuleID(err); rule != "" {
		msg = rule + ": " + msg
	}
	switch {
	case token.IsKind(err, token.KindQuery):
		return status.Error(codes.OutOfRange, msg)
	case token.IsKind(err, token.KindAddress):
		return status.Error(codes.InvalidArgument, msg)
	default:
		return status.Error(codes.Internal, msg)
	}
}
