package chain

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rpcMock creates a test HTTP server that answers JSON-RPC calls from a
// method → result map. Unknown methods get a -32601 error.
func rpcMock(t *testing.T, responses map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			ID     int    `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if result, ok := responses[req.Method]; ok {
			json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
				"jsonrpc": "2.0",
				"id":      req.ID,
				"result":  result,
			})
		} else {
			json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
				"jsonrpc": "2.0",
				"id":      req.ID,
				"error":   map[string]interface{}{"code": -32601, "message": "method not found"},
			})
		}
	}))
}

// rpcErrorServer creates a test HTTP server that always returns a JSON-RPC error.
func rpcErrorServer(t *testing.T, code int, msg string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID int `json:"id"`
		}
		json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
			"jsonrpc": "2.0",
			"id":      req.ID,
			"error":   map[string]interface{}{"code": code, "message": msg},
		})
	}))
}

// rpcBadJSON creates a server that returns malformed JSON.
func rpcBadJSON(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{not valid json`)) //nolint:errcheck
	}))
}

// ---------------------------------------------------------------------------
// FormatWei / ParseUnits
// ---------------------------------------------------------------------------

func TestFormatWeiZero(t *testing.T) {
	assert.Equal(t, "0.000000000000000000", FormatWei(big.NewInt(0)))
}

func TestFormatWeiOneEther(t *testing.T) {
	one := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	assert.Equal(t, "1.000000000000000000", FormatWei(one))
}

func TestFormatWeiOneWei(t *testing.T) {
	assert.Equal(t, "0.000000000000000001", FormatWei(big.NewInt(1)))
}

func TestFormatWeiCreationFee(t *testing.T) {
	fee := big.NewInt(2_500_000_000_000_000_000)
	assert.Equal(t, "2.500000000000000000", FormatWei(fee))
}

func TestParseUnits(t *testing.T) {
	tests := []struct {
		amount   string
		decimals int
		want     string
	}{
		{"1", 18, "1000000000000000000"},
		{"2.5", 18, "2500000000000000000"},
		{"100", 6, "100000000"},
		{"0.000001", 6, "1"},
		{"42", 0, "42"},
	}
	for _, tc := range tests {
		got, err := ParseUnits(tc.amount, tc.decimals)
		require.NoError(t, err, tc.amount)
		assert.Equal(t, tc.want, got.String(), "%s at %d decimals", tc.amount, tc.decimals)
	}
}

func TestParseUnitsInvalid(t *testing.T) {
	_, err := ParseUnits("not-a-number", 18)
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// EVMClient — balance, code, calls
// ---------------------------------------------------------------------------

func TestGetBalance(t *testing.T) {
	// 1 ether.
	srv := rpcMock(t, map[string]interface{}{
		"eth_getBalance": "0xde0b6b3a7640000",
	})
	defer srv.Close()

	bal, err := NewEVMClient(srv.URL).GetBalance("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", bal.Wei.String())
	assert.Equal(t, "1.000000000000000000", bal.Native)
}

func TestGetBalanceRPCError(t *testing.T) {
	srv := rpcErrorServer(t, -32000, "server down")
	defer srv.Close()

	_, err := NewEVMClient(srv.URL).GetBalance("0xaddr")
	require.Error(t, err)
}

func TestHasCode(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{
		"eth_getCode": "0x6080604052",
	})
	defer srv.Close()

	ok, err := NewEVMClient(srv.URL).HasCode("0xfactory")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHasCodeEmpty(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{
		"eth_getCode": "0x",
	})
	defer srv.Close()

	ok, err := NewEVMClient(srv.URL).HasCode("0xnothinghere")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCallContract(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{
		"eth_call": "0x0000000000000000000000000000000000000000000000000000000000000012",
	})
	defer srv.Close()

	out, err := NewEVMClient(srv.URL).CallContract("0xtoken", "0x313ce567")
	require.NoError(t, err)
	assert.Equal(t, "0x0000000000000000000000000000000000000000000000000000000000000012", out)
}

func TestCallContractReverted(t *testing.T) {
	srv := rpcErrorServer(t, 3, "execution reverted")
	defer srv.Close()

	_, err := NewEVMClient(srv.URL).CallContract("0xtoken", "0xd01f63f5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execution reverted")
}

func TestSendRawTransaction(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{
		"eth_sendRawTransaction": "0xabc123",
	})
	defer srv.Close()

	hash, err := NewEVMClient(srv.URL).SendRawTransaction("0x02f8...")
	require.NoError(t, err)
	assert.Equal(t, "0xabc123", hash)
}

func TestChainID(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{
		"eth_chainId": "0x7a69", // 31337
	})
	defer srv.Close()

	id, err := NewEVMClient(srv.URL).ChainID()
	require.NoError(t, err)
	assert.Equal(t, int64(31337), id)
}

func TestGasPrice(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{
		"eth_gasPrice": "0x3b9aca00", // 1 gwei
	})
	defer srv.Close()

	gp, err := NewEVMClient(srv.URL).GasPrice()
	require.NoError(t, err)
	assert.Equal(t, "1000000000", gp.String())
}

func TestGetNonce(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{
		"eth_getTransactionCount": "0x5",
	})
	defer srv.Close()

	n, err := NewEVMClient(srv.URL).GetNonce("0xaddr")
	require.NoError(t, err)
	assert.Equal(t, uint64(5), n)
}

func TestEstimateGas(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{
		"eth_estimateGas": "0x186a0", // 100000
	})
	defer srv.Close()

	gas, err := NewEVMClient(srv.URL).EstimateGas("0xfrom", "0xto", "0xdeadbeef", big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, uint64(100000), gas)
}

func TestEstimateGasRPCError(t *testing.T) {
	srv := rpcErrorServer(t, -32000, "gas required exceeds allowance")
	defer srv.Close()

	_, err := NewEVMClient(srv.URL).EstimateGas("0xfrom", "0xto", "", nil)
	require.Error(t, err)
}

func TestClientBadJSON(t *testing.T) {
	srv := rpcBadJSON(t)
	defer srv.Close()

	_, err := NewEVMClient(srv.URL).ChainID()
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// EVMClient — GetTransactionReceipt
// ---------------------------------------------------------------------------

func TestGetTransactionReceiptSuccess(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{
		"eth_getTransactionReceipt": map[string]interface{}{
			"status":      "0x1",
			"blockNumber": "0x100",
			"gasUsed":     "0x5208",
			"logs": []interface{}{
				map[string]interface{}{
					"address": "0xfactory",
					"topics": []interface{}{
						"0x3f580ad5de4479ddb7a621d69266cb6c7a3295fda07e0746dc2230b17db82374",
						"0x0000000000000000000000005fbdb2315678afecb367f032d93f642f64180aa3",
					},
					"data":     "0x",
					"logIndex": "0x0",
				},
			},
		},
	})
	defer srv.Close()

	receipt, err := NewEVMClient(srv.URL).GetTransactionReceipt("0xtxhash")
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, uint64(1), receipt.Status)
	assert.Equal(t, uint64(256), receipt.BlockNumber)
	assert.Equal(t, uint64(21000), receipt.GasUsed)
	assert.Equal(t, "0xtxhash", receipt.Hash)
	require.Len(t, receipt.Logs, 1)
	assert.Equal(t, "0xfactory", receipt.Logs[0].Address)
	require.Len(t, receipt.Logs[0].Topics, 2)
	assert.Equal(t,
		"0x3f580ad5de4479ddb7a621d69266cb6c7a3295fda07e0746dc2230b17db82374",
		receipt.Logs[0].Topics[0])
}

func TestGetTransactionReceiptPending(t *testing.T) {
	// Pending transactions return null result.
	srv := rpcMock(t, map[string]interface{}{
		"eth_getTransactionReceipt": nil,
	})
	defer srv.Close()

	receipt, err := NewEVMClient(srv.URL).GetTransactionReceipt("0xpending")
	require.NoError(t, err)
	assert.Nil(t, receipt, "pending tx should return nil receipt")
}

func TestGetTransactionReceiptRPCError(t *testing.T) {
	srv := rpcErrorServer(t, -32602, "invalid hash format")
	defer srv.Close()

	_, err := NewEVMClient(srv.URL).GetTransactionReceipt("badhash")
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// EVMClient — WaitForReceipt
// ---------------------------------------------------------------------------

func TestWaitForReceiptImmediate(t *testing.T) {
	// Receipt available on first poll.
	srv := rpcMock(t, map[string]interface{}{
		"eth_getTransactionReceipt": map[string]interface{}{
			"status":      "0x1",
			"blockNumber": "0xA",
			"gasUsed":     "0x5208",
		},
	})
	defer srv.Close()

	receipt, err := NewEVMClient(srv.URL).WaitForReceipt(context.Background(), "0xtxhash")
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, uint64(1), receipt.Status)
}

func TestWaitForReceiptReverted(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{
		"eth_getTransactionReceipt": map[string]interface{}{
			"status":      "0x0",
			"blockNumber": "0xA",
			"gasUsed":     "0x5208",
		},
	})
	defer srv.Close()

	receipt, err := NewEVMClient(srv.URL).WaitForReceipt(context.Background(), "0xreverted")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReverted)
	require.NotNil(t, receipt)
	assert.Equal(t, uint64(0), receipt.Status)
}

func TestWaitForReceiptTimeout(t *testing.T) {
	// Always return nil (pending) so the deadline fires.
	srv := rpcMock(t, map[string]interface{}{
		"eth_getTransactionReceipt": nil,
	})
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewEVMClient(srv.URL).WaitForReceipt(ctx, "0xstuck")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWaitTimeout)
	assert.Contains(t, err.Error(), "0xstuck")
}

func TestWaitForReceiptRPCError(t *testing.T) {
	srv := rpcErrorServer(t, -32000, "node error")
	defer srv.Close()

	_, err := NewEVMClient(srv.URL).WaitForReceipt(context.Background(), "0xtx")
	require.Error(t, err)
}
