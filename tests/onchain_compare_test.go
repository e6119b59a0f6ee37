package tests

import (
	"context"
	"math/big"
	"os"
	"strings"
	"testing"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/holiman/uint256"

	"github.com/eduales99/bancor-protocol-contracts/pkg/bancor"
)

// Minimal ABI covering the two conversion entry points of a deployed formula
// contract.
const formulaABI = `[
	{"constant":true,"inputs":[{"name":"_supply","type":"uint256"},{"name":"_reserveBalance","type":"uint256"},{"name":"_reserveRatio","type":"uint32"},{"name":"_depositAmount","type":"uint256"}],"name":"calculatePurchaseReturn","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"_supply","type":"uint256"},{"name":"_reserveBalance","type":"uint256"},{"name":"_reserveRatio","type":"uint32"},{"name":"_sellAmount","type":"uint256"}],"name":"calculateSaleReturn","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}
]`

// TestConversionReturns_Onchain compares the local formula to a deployed
// formula contract via eth_call. Skips unless both ETH_RPC_URL and
// FORMULA_ADDR are set.
func TestConversionReturns_Onchain(t *testing.T) {
	rpcURL := os.Getenv("ETH_RPC_URL")
	formulaAddr := os.Getenv("FORMULA_ADDR")
	if rpcURL == "" || formulaAddr == "" {
		t.Skip("ETH_RPC_URL or FORMULA_ADDR not set; skipping on-chain comparison test")
	}
	if !common.IsHexAddress(formulaAddr) {
		t.Fatalf("invalid FORMULA_ADDR: %s", formulaAddr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		t.Fatalf("dial eth rpc: %v", err)
	}

	contractABI, err := gethabi.JSON(strings.NewReader(formulaABI))
	if err != nil {
		t.Fatalf("parse abi: %v", err)
	}
	formula := common.HexToAddress(formulaAddr)

	// Test vectors (supply, reserveBalance, reserveRatio, amount)
	cases := []struct {
		name    string
		supply  *big.Int
		reserve *big.Int
		ratio   uint32
		amount  *big.Int
	}{
		{"small_balanced", big.NewInt(1_000), big.NewInt(1_000), 500000, big.NewInt(1_000)},
		{"low_crr", new(big.Int).SetUint64(5_000_000_000_000_000), new(big.Int).SetUint64(100_000_000_000_000), 100000, big.NewInt(50_000_000_000)},
		{"near_max_crr", new(big.Int).SetUint64(50_000_000_000_000_000), new(big.Int).SetUint64(75_000_000_000_000), 999999, new(big.Int).SetUint64(1_000_000_000_000)},
	}

	call := func(method string, tc int) *big.Int {
		c := cases[tc]
		input, err := contractABI.Pack(method, c.supply, c.reserve, c.ratio, c.amount)
		if err != nil {
			t.Fatalf("abi pack %s: %v", method, err)
		}
		out, err := client.CallContract(ctx, ethereum.CallMsg{To: &formula, Data: input}, nil)
		if err != nil {
			t.Fatalf("eth_call %s: %v", method, err)
		}
		values, err := contractABI.Unpack(method, out)
		if err != nil {
			t.Fatalf("abi unpack %s: %v", method, err)
		}
		onchain, ok := values[0].(*big.Int)
		if !ok {
			t.Fatalf("unexpected output type: %T", values[0])
		}
		return onchain
	}

	for i, tc := range cases {
		i, tc := i, tc
		t.Run(tc.name, func(t *testing.T) {
			supply := uint256.MustFromBig(tc.supply)
			reserve := uint256.MustFromBig(tc.reserve)
			amount := uint256.MustFromBig(tc.amount)

			local, err := bancor.CalculatePurchaseReturn(supply, reserve, tc.ratio, amount)
			if err != nil {
				t.Fatalf("local purchase: %v", err)
			}
			if onchain := call("calculatePurchaseReturn", i); local.ToBig().Cmp(onchain) != 0 {
				t.Fatalf("purchase mismatch: local=%s onchain=%s", local.Dec(), onchain)
			}

			local, err = bancor.CalculateSaleReturn(supply, reserve, tc.ratio, amount)
			if err != nil {
				t.Fatalf("local sale: %v", err)
			}
			if onchain := call("calculateSaleReturn", i); local.ToBig().Cmp(onchain) != 0 {
				t.Fatalf("sale mismatch: local=%s onchain=%s", local.Dec(), onchain)
			}
		})
	}
}
