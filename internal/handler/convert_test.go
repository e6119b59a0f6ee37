package handler

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/gofiber/fiber/v3"

	"github.com/eduales99/bancor-protocol-contracts/internal/service"
)

type fakeEth struct {
	blockNumber uint64
	// storage[address][positionHash] = 32-byte value
	storage map[common.Address]map[common.Hash][]byte
}

func (f *fakeEth) BlockNumber(ctx context.Context) (hexutil.Uint64, error) {
	return hexutil.Uint64(f.blockNumber), nil
}

func (f *fakeEth) GetStorageAt(ctx context.Context, addr common.Address, position common.Hash, _ gethrpc.BlockNumberOrHash) (hexutil.Bytes, error) {
	if m, ok := f.storage[addr]; ok {
		if v, ok2 := m[position]; ok2 {
			return hexutil.Bytes(v), nil
		}
	}
	// default empty 32 bytes
	return hexutil.Bytes(make([]byte, 32)), nil
}

func newInprocEthClient(t *testing.T, fe *fakeEth) *ethclient.Client {
	t.Helper()
	srv := gethrpc.NewServer()
	// Register under the standard "eth" namespace so methods map to eth_*
	if err := srv.RegisterName("eth", fe); err != nil {
		t.Fatalf("register rpc service: %v", err)
	}
	c := gethrpc.DialInProc(srv)
	return ethclient.NewClient(c)
}

func u256Bytes(v uint64) []byte {
	out := make([]byte, 32)
	new(big.Int).SetUint64(v).FillBytes(out)
	return out
}

// balanceOf[holder] lives at keccak(pad32(holder) . pad32(5)) in the reserve
// token; totalSupply lives at slot 4 of the smart token.
func balanceOfKey(holder common.Address) common.Hash {
	return crypto.Keccak256Hash(
		common.LeftPadBytes(holder.Bytes(), 32),
		common.BigToHash(big.NewInt(5)).Bytes(),
	)
}

func newTestApp(t *testing.T, fe *fakeEth) *fiber.App {
	t.Helper()
	ec := newInprocEthClient(t, fe)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewConvertService(logger, *ec)
	h := NewConvertHandler(logger, svc)

	app := fiber.New()
	app.Get("/purchase", h.HandlePurchase())
	app.Get("/sale", h.HandleSale())
	return app
}

func TestConvertHandler_Purchase(t *testing.T) {
	token := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	reserveToken := common.HexToAddress("0x00000000000000000000000000000000000000bb")
	converter := common.HexToAddress("0x0000000000000000000000000000000000000abc")

	fe := &fakeEth{
		blockNumber: 42,
		storage: map[common.Address]map[common.Hash][]byte{
			token:        {common.BigToHash(big.NewInt(4)): u256Bytes(1000)},
			reserveToken: {balanceOfKey(converter): u256Bytes(1000)},
		},
	}
	app := newTestApp(t, fe)

	url := "/purchase?token=" + token.Hex() + "&reserve_token=" + reserveToken.Hex() +
		"&converter=" + converter.Hex() + "&ratio=500000&amount=1000"
	req := httptest.NewRequest(http.MethodGet, url, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "414" {
		t.Fatalf("unexpected body: %q want %q", body, "414")
	}
}

func TestConvertHandler_Sale(t *testing.T) {
	token := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	reserveToken := common.HexToAddress("0x00000000000000000000000000000000000000bb")
	converter := common.HexToAddress("0x0000000000000000000000000000000000000abc")

	fe := &fakeEth{
		blockNumber: 42,
		storage: map[common.Address]map[common.Hash][]byte{
			token:        {common.BigToHash(big.NewInt(4)): u256Bytes(1000)},
			reserveToken: {balanceOfKey(converter): u256Bytes(1000)},
		},
	}
	app := newTestApp(t, fe)

	url := "/sale?token=" + token.Hex() + "&reserve_token=" + reserveToken.Hex() +
		"&converter=" + converter.Hex() + "&ratio=500000&amount=500"
	req := httptest.NewRequest(http.MethodGet, url, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "749" {
		t.Fatalf("unexpected body: %q want %q", body, "749")
	}
}

func TestConvertHandler_Validation(t *testing.T) {
	token := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	reserveToken := common.HexToAddress("0x00000000000000000000000000000000000000bb")
	converter := common.HexToAddress("0x0000000000000000000000000000000000000abc")

	fe := &fakeEth{
		blockNumber: 1,
		storage: map[common.Address]map[common.Hash][]byte{
			token:        {common.BigToHash(big.NewInt(4)): u256Bytes(1000)},
			reserveToken: {balanceOfKey(converter): u256Bytes(1000)},
		},
	}
	app := newTestApp(t, fe)

	base := "token=" + token.Hex() + "&reserve_token=" + reserveToken.Hex() + "&converter=" + converter.Hex()

	cases := []struct {
		name string
		url  string
	}{
		{"missing_everything", "/purchase"},
		{"missing_converter", "/purchase?token=" + token.Hex() + "&reserve_token=" + reserveToken.Hex() + "&ratio=500000&amount=1"},
		{"bad_address", "/purchase?token=nothex&reserve_token=" + reserveToken.Hex() + "&converter=" + converter.Hex() + "&ratio=500000&amount=1"},
		{"same_addresses", "/purchase?token=" + token.Hex() + "&reserve_token=" + token.Hex() + "&converter=" + converter.Hex() + "&ratio=500000&amount=1"},
		{"missing_ratio", "/purchase?" + base + "&amount=1"},
		{"zero_ratio", "/purchase?" + base + "&ratio=0&amount=1"},
		{"ratio_above_max", "/purchase?" + base + "&ratio=1000001&amount=1"},
		{"missing_amount", "/purchase?" + base + "&ratio=500000"},
		{"bad_amount", "/purchase?" + base + "&ratio=500000&amount=12x"},
		{"sale_above_supply", "/sale?" + base + "&ratio=500000&amount=1001"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test error: %v", err)
			}
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestConvertHandler_ZeroAmount(t *testing.T) {
	token := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	reserveToken := common.HexToAddress("0x00000000000000000000000000000000000000bb")
	converter := common.HexToAddress("0x0000000000000000000000000000000000000abc")

	fe := &fakeEth{
		blockNumber: 1,
		storage: map[common.Address]map[common.Hash][]byte{
			token:        {common.BigToHash(big.NewInt(4)): u256Bytes(1000)},
			reserveToken: {balanceOfKey(converter): u256Bytes(1000)},
		},
	}
	app := newTestApp(t, fe)

	url := "/purchase?token=" + token.Hex() + "&reserve_token=" + reserveToken.Hex() +
		"&converter=" + converter.Hex() + "&ratio=500000&amount=0"
	req := httptest.NewRequest(http.MethodGet, url, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "0" {
		t.Fatalf("unexpected body: %q want %q", body, "0")
	}
}
