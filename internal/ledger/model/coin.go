package model

// Coin labels the chain a ledger is extracted from.
type Coin string

// Network labels the network of a coin.
type Network string

var (
	BTC Coin = "BTC"
)

var (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Regtest Network = "regtest"
	Signet  Network = "signet"
)
