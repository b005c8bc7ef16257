package token

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tokenforge/tokenforge/internal/chain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected FaultClass
	}{
		{"user rejected", "User rejected the request.", FaultRejected},
		{"user denied", "MetaMask Tx Signature: User denied transaction signature.", FaultRejected},
		{"insufficient funds", "insufficient funds for gas * price + value", FaultInsufficientFunds},
		{"out of gas", "out of gas", FaultGas},
		{"gas allowance", "gas required exceeds allowance", FaultGas},
		{"execution reverted", "RPC error -32000: execution reverted", FaultGeneric},
		{"bare reverted", "transaction reverted without a reason", FaultGeneric},
		{"generic", "connection refused", FaultGeneric},
		{"empty", "", FaultGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(errors.New(tt.text)))
		})
	}
}

// A mined-but-reverted write comes back as chain.ErrReverted. It must
// surface under the generic code, never as the probe-only unsupported
// category.
func TestClassifyRevertedWriteIsGeneric(t *testing.T) {
	err := fmt.Errorf("%w (hash: 0xabc)", chain.ErrReverted)

	assert.Equal(t, FaultGeneric, Classify(err))
	assert.Equal(t, "ERROR", Classify(err).Code())
	assert.NotEqual(t, "UNSUPPORTED", Classify(err).Code())
}

func TestClassifyNil(t *testing.T) {
	assert.Equal(t, FaultGeneric, Classify(nil))
	assert.False(t, IsRejection(nil))
	assert.False(t, IsUnsupported(nil))
}

func TestClassifyCaseInsensitive(t *testing.T) {
	assert.True(t, IsRejection(errors.New("USER REJECTED")))
	assert.True(t, IsUnsupported(errors.New("Execution Reverted")))
}

func TestIsUnsupportedProbeVocabulary(t *testing.T) {
	for _, text := range []string{
		"the function selector was not recognized by the contract",
		"contract.getWhitelist is not a function",
		"method does not exist or is not available",
		"RPC error -32000: execution reverted",
		"transaction reverted without a reason",
	} {
		assert.True(t, IsUnsupported(errors.New(text)), text)
	}
	assert.False(t, IsUnsupported(errors.New("connection refused")))
}

func TestFaultCodes(t *testing.T) {
	assert.Equal(t, "REJECTED", FaultRejected.Code())
	assert.Equal(t, "FUNDS", FaultInsufficientFunds.Code())
	assert.Equal(t, "GAS", FaultGas.Code())
	assert.Equal(t, "ERROR", FaultGeneric.Code())
}
