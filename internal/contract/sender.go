package contract

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/tokenforge/tokenforge/internal/chain"
	"github.com/tokenforge/tokenforge/internal/wallet"
)

// Sender sends write transactions to contracts.
type Sender struct {
	client  *chain.EVMClient
	abi     []ABIEntry
	signer  *wallet.Signer
	chainID *big.Int
}

// NewSender creates a Sender.
func NewSender(rpcURL string, abi []ABIEntry, signer *wallet.Signer, chainID *big.Int) *Sender {
	return &Sender{
		client:  chain.NewEVMClient(rpcURL),
		abi:     abi,
		signer:  signer,
		chainID: chainID,
	}
}

// Send calls a write function and broadcasts the transaction.
// Returns the transaction hash.
func (s *Sender) Send(contractAddr, funcName string, args ...string) (string, error) {
	return s.SendWithValue(contractAddr, funcName, nil, args...)
}

// SendWithValue is Send with native value attached, for payable functions.
func (s *Sender) SendWithValue(contractAddr, funcName string, value *big.Int, args ...string) (string, error) {
	fn := FindFunction(s.abi, funcName)
	if fn == nil {
		return "", fmt.Errorf("function %q not found in ABI", funcName)
	}
	if !fn.IsWriteFunction() {
		return "", fmt.Errorf("function %q is not a write function", funcName)
	}
	if value != nil && value.Sign() > 0 && fn.StateMutability != "payable" {
		return "", fmt.Errorf("function %q is not payable", funcName)
	}

	calldata, err := EncodeCall(fn, args)
	if err != nil {
		return "", fmt.Errorf("encoding call: %w", err)
	}

	from := s.signer.Address()

	gas, err := s.client.EstimateGas(from, contractAddr, calldata, value)
	if err != nil {
		gas = 100000 // fallback
	}

	gasPrice, err := s.client.GasPrice()
	if err != nil {
		return "", fmt.Errorf("getting gas price: %w", err)
	}

	nonce, err := s.client.GetNonce(from)
	if err != nil {
		return "", fmt.Errorf("getting nonce: %w", err)
	}

	calldataBytes, err := hex.DecodeString(strings.TrimPrefix(calldata, "0x"))
	if err != nil {
		return "", fmt.Errorf("decoding calldata: %w", err)
	}
	toAddr := common.HexToAddress(contractAddr)

	txValue := big.NewInt(0)
	if value != nil {
		txValue = value
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   s.chainID,
		Nonce:     nonce,
		GasTipCap: gasPrice,
		GasFeeCap: new(big.Int).Mul(gasPrice, big.NewInt(2)),
		Gas:       gas,
		To:        &toAddr,
		Value:     txValue,
		Data:      calldataBytes,
	})

	raw, err := s.signer.SignTx(tx, s.chainID)
	if err != nil {
		return "", fmt.Errorf("signing transaction: %w", err)
	}

	hash, err := s.client.SendRawTransaction("0x" + hex.EncodeToString(raw))
	if err != nil {
		return "", fmt.Errorf("broadcasting transaction: %w", err)
	}

	return hash, nil
}
