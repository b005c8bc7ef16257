package token

import (
	"math/big"
	"time"
)

// Config carries the fixed deployment parameters. Constructed once at
// startup and passed by value; nothing mutates it afterwards.
type Config struct {
	FactoryAddress string
	CreationFeeWei *big.Int
	PendingTimeout time.Duration
	SettleDelay    time.Duration
}

// DefaultConfig returns the standard parameters for a factory address:
// a 2.5 native-unit creation fee, a 30s confirmation ceiling, and a 2s
// settle delay before post-write re-reads.
func DefaultConfig(factoryAddr string) Config {
	return Config{
		FactoryAddress: factoryAddr,
		CreationFeeWei: big.NewInt(2_500_000_000_000_000_000),
		PendingTimeout: 30 * time.Second,
		SettleDelay:    2 * time.Second,
	}
}
