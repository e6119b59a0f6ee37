// Package eth wraps go-ethereum client construction.
package eth

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
)

// Dial connects to the given RPC endpoint with a bounded handshake timeout.
func Dial(ctx context.Context, url string) (*ethclient.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	return ethclient.DialContext(ctx, url)
}
