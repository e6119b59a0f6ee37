package service

import (
	"context"
	"fmt"
	"math/big"

	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/holiman/uint256"

	"github.com/eduales99/bancor-protocol-contracts/pkg/bancor"
)

// ConvertService estimates bonding-curve conversion returns by reading smart
// token and reserve token state directly from contract storage.
type ConvertService struct {
	BaseService
	ethereumClient *ethclient.Client
}

// NewConvertService constructs a ConvertService using the provided logger and
// Ethereum client.
func NewConvertService(logger *slog.Logger, ec ethclient.Client) *ConvertService {
	return &ConvertService{
		BaseService:    BaseService{logger: logger},
		ethereumClient: &ec,
	}
}

// contract ERC20Token is IERC20Token, Utils {
//     string public standard = 'Token 0.1';                               // slot 0
//     string public name = '';                                            // slot 1
//     string public symbol = '';                                          // slot 2
//     uint8 public decimals = 0;                                          // slot 3
//     uint256 public totalSupply = 0;                                     // slot 4
//     mapping (address => uint256) public balanceOf;                      // slot 5
//     mapping (address => mapping (address => uint256)) public allowance; // slot 6

const (
	totalSupplySlot = 4
	balanceOfSlot   = 5
)

// PurchaseReturn computes the amount of smart tokens minted for depositing
// depositAmount of the reserve asset, using the supply and reserve balance at
// the latest block.
func (s *ConvertService) PurchaseReturn(ctx context.Context, token, reserveToken, converter common.Address, reserveRatio uint32, depositAmount *uint256.Int) (*uint256.Int, error) {
	supply, reserveBalance, err := s.loadConverterState(ctx, token, reserveToken, converter)
	if err != nil {
		return nil, err
	}

	out, err := bancor.CalculatePurchaseReturn(supply, reserveBalance, reserveRatio, depositAmount)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("purchase return computed", "token", token.Hex(), "supply", supply.Dec(), "reserve", reserveBalance.Dec(), "in", depositAmount.Dec(), "out", out.Dec())
	return out, nil
}

// SaleReturn computes the amount of the reserve asset released for selling
// sellAmount smart tokens, using the supply and reserve balance at the latest
// block.
func (s *ConvertService) SaleReturn(ctx context.Context, token, reserveToken, converter common.Address, reserveRatio uint32, sellAmount *uint256.Int) (*uint256.Int, error) {
	supply, reserveBalance, err := s.loadConverterState(ctx, token, reserveToken, converter)
	if err != nil {
		return nil, err
	}

	out, err := bancor.CalculateSaleReturn(supply, reserveBalance, reserveRatio, sellAmount)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("sale return computed", "token", token.Hex(), "supply", supply.Dec(), "reserve", reserveBalance.Dec(), "in", sellAmount.Dec(), "out", out.Dec())
	return out, nil
}

// loadConverterState reads the smart token's total supply and the converter's
// reserve token balance from storage, pinned to a single block.
func (s *ConvertService) loadConverterState(ctx context.Context, token, reserveToken, converter common.Address) (*uint256.Int, *uint256.Int, error) {
	bn, err := s.ethereumClient.BlockNumber(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("block number: %w", err)
	}
	blockNum := new(big.Int).SetUint64(bn)

	b, err := s.readSlot(ctx, token, blockNum, common.BigToHash(new(big.Int).SetUint64(totalSupplySlot)))
	if err != nil {
		return nil, nil, err
	}
	supply := new(uint256.Int).SetBytes(b)
	if supply.IsZero() {
		return nil, nil, ErrZeroSupply
	}

	b, err = s.readSlot(ctx, reserveToken, blockNum, balanceSlot(converter))
	if err != nil {
		return nil, nil, err
	}
	reserveBalance := new(uint256.Int).SetBytes(b)
	if reserveBalance.IsZero() {
		return nil, nil, ErrZeroReserve
	}

	return supply, reserveBalance, nil
}

func (s *ConvertService) readSlot(ctx context.Context, contract common.Address, blockNum *big.Int, key common.Hash) ([]byte, error) {
	b, err := s.ethereumClient.StorageAt(ctx, contract, key, blockNum)
	if err != nil {
		return nil, fmt.Errorf("storageAt %s (contract %s, block %s): %w",
			key.Hex(), contract.Hex(), blockNum.String(), err)
	}
	return b, nil
}

// balanceSlot returns the storage key of balanceOf[holder]: the keccak of the
// left-padded holder address concatenated with the mapping's slot index.
func balanceSlot(holder common.Address) common.Hash {
	return crypto.Keccak256Hash(
		common.LeftPadBytes(holder.Bytes(), 32),
		common.BigToHash(new(big.Int).SetUint64(balanceOfSlot)).Bytes(),
	)
}
