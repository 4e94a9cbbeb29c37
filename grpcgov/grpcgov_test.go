package grpcgov

import (
	"context"
	"net"
	"testing"

	"github.com/holiman/uint256"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"xdao.co/govtoken/token"
)

func addr(b byte) token.Address {
	var a token.Address
	a[19] = b
	return a
}

func testLedger(t *testing.T) *token.Ledger {
	t.Helper()
	l, err := token.NewLedger(token.Config{
		ChainID:     1337,
		Contract:    addr(0xFE),
		Holder:      addr(0xA1),
		Supply:      uint256.NewInt(1_000_000),
		GenesisTime: 1_700_000_000,
	})
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}
	if err := l.Delegate(addr(0xA1), addr(0xB2)); err != nil {
		t.Fatalf("Delegate: %v", err)
	}
	if err := l.Approve(addr(0xA1), addr(0xC3), uint256.NewInt(777)); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	l.AdvanceBlock()
	return l
}

func dialTestServer(t *testing.T, l *token.Ledger) LedgerQueryClient {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	RegisterLedgerQueryServer(srv, &Server{Ledger: l})

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

	return NewLedgerQueryClient(cc)
}

func TestLedgerQuery_Reads(t *testing.T) {
	l := testLedger(t)
	client := dialTestServer(t, l)
	ctx := context.Background()

	supply, err := client.TotalSupply(ctx)
	if err != nil || supply != "1000000" {
		t.Fatalf("TotalSupply: %q, %v", supply, err)
	}
	height, err := client.Height(ctx)
	if err != nil || height != 2 {
		t.Fatalf("Height: %d, %v", height, err)
	}
	balance, err := client.BalanceOf(ctx, addr(0xA1).Hex())
	if err != nil || balance != "1000000" {
		t.Fatalf("BalanceOf: %q, %v", balance, err)
	}
	delegate, err := client.Delegates(ctx, addr(0xA1).Hex())
	if err != nil || delegate != addr(0xB2).Hex() {
		t.Fatalf("Delegates: %q, %v", delegate, err)
	}
	votes, err := client.GetCurrentVotes(ctx, addr(0xB2).Hex())
	if err != nil || votes != "1000000" {
		t.Fatalf("GetCurrentVotes: %q, %v", votes, err)
	}
	allowance, err := client.Allowance(ctx, addr(0xA1).Hex(), addr(0xC3).Hex())
	if err != nil || allowance != "777" {
		t.Fatalf("Allowance: %q, %v", allowance, err)
	}
	prior, err := client.GetPriorVotes(ctx, addr(0xB2).Hex(), 1)
	if err != nil || prior != "1000000" {
		t.Fatalf("GetPriorVotes: %q, %v", prior, err)
	}
	prior, err = client.GetPriorVotes(ctx, addr(0xB2).Hex(), 0)
	if err != nil || prior != "0" {
		t.Fatalf("GetPriorVotes(genesis): %q, %v", prior, err)
	}
}

func TestLedgerQuery_StatusCodes(t *testing.T) {
	l := testLedger(t)
	client := dialTestServer(t, l)
	ctx := context.Background()

	// Unsettled blocks are out of range.
	if _, err := client.GetPriorVotes(ctx, addr(0xB2).Hex(), l.Height()); status.Code(err) != codes.OutOfRange {
		t.Fatalf("future block: %v", err)
	}
	// Garbage addresses are the caller's fault.
	if _, err := client.BalanceOf(ctx, "not-an-address"); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("bad address: %v", err)
	}
	if _, err := client.Allowance(ctx, addr(0xA1).Hex(), "0x12"); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("bad spender: %v", err)
	}
}

func TestLedgerQuery_MissingLedger(t *testing.T) {
	client := dialTestServer(t, nil)
	if _, err := client.Height(context.Background()); status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("missing ledger: %v", err)
	}
}

func TestLedgerQuery_TracksLiveState(t *testing.T) {
	l := testLedger(t)
	client := dialTestServer(t, l)
	ctx := context.Background()

	if err := l.Transfer(addr(0xA1), addr(0xC3), uint256.NewInt(100)); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	balance, err := client.BalanceOf(ctx, addr(0xC3).Hex())
	if err != nil || balance != "100" {
		t.Fatalf("BalanceOf after transfer: %q, %v", balance, err)
	}
	votes, err := client.GetCurrentVotes(ctx, addr(0xB2).Hex())
	if err != nil || votes != "999900" {
		t.Fatalf("GetCurrentVotes after transfer: %q, %v", votes, err)
	}
}
