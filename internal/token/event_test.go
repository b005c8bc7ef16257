package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenforge/tokenforge/internal/chain"
)

const createdAddr = "0x5fbdb2315678afecb367f032d93f642f64180aa3"

func createdLog() chain.LogEntry {
	return chain.LogEntry{
		Address: "0xfactory",
		Topics: []string{
			TokenCreatedTopic,
			"0x000000000000000000000000" + strings.TrimPrefix(createdAddr, "0x"),
		},
		Data: "0x",
	}
}

func TestExtractCreatedAddress(t *testing.T) {
	addr, err := ExtractCreatedAddress([]chain.LogEntry{createdLog()}, TokenCreatedTopic)
	require.NoError(t, err)
	assert.Equal(t, createdAddr, addr)
}

func TestExtractCreatedAddressSkipsOtherEvents(t *testing.T) {
	transfer := chain.LogEntry{
		Topics: []string{
			"0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef",
			"0x0000000000000000000000000000000000000000000000000000000000000000",
			"0x000000000000000000000000ffffffffffffffffffffffffffffffffffffffff",
		},
	}

	addr, err := ExtractCreatedAddress([]chain.LogEntry{transfer, createdLog()}, TokenCreatedTopic)
	require.NoError(t, err)
	assert.Equal(t, createdAddr, addr)
}

func TestExtractCreatedAddressFirstMatchWins(t *testing.T) {
	second := createdLog()
	second.Topics[1] = "0x000000000000000000000000ffffffffffffffffffffffffffffffffffffffff"

	addr, err := ExtractCreatedAddress([]chain.LogEntry{createdLog(), second}, TokenCreatedTopic)
	require.NoError(t, err)
	assert.Equal(t, createdAddr, addr)
}

func TestExtractCreatedAddressNotFound(t *testing.T) {
	_, err := ExtractCreatedAddress(nil, TokenCreatedTopic)
	assert.ErrorIs(t, err, ErrEventNotFound)

	_, err = ExtractCreatedAddress([]chain.LogEntry{{Topics: []string{"0xdead"}}}, TokenCreatedTopic)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestExtractCreatedAddressMissingSecondTopic(t *testing.T) {
	log := chain.LogEntry{Topics: []string{TokenCreatedTopic}}
	_, err := ExtractCreatedAddress([]chain.LogEntry{log}, TokenCreatedTopic)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestExtractCreatedAddressCaseInsensitiveTopic(t *testing.T) {
	log := createdLog()
	log.Topics[0] = strings.ToUpper(strings.TrimPrefix(log.Topics[0], "0x"))
	log.Topics[0] = "0x" + log.Topics[0]

	addr, err := ExtractCreatedAddress([]chain.LogEntry{log}, TokenCreatedTopic)
	require.NoError(t, err)
	assert.Equal(t, createdAddr, addr)
}

func TestExtractCreatedAddressPure(t *testing.T) {
	logs := []chain.LogEntry{createdLog()}

	first, err := ExtractCreatedAddress(logs, TokenCreatedTopic)
	require.NoError(t, err)
	second, err := ExtractCreatedAddress(logs, TokenCreatedTopic)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTokenCreatedTopicValue(t *testing.T) {
	assert.Equal(t,
		"0x3f580ad5de4479ddb7a621d69266cb6c7a3295fda07e0746dc2230b17db82374",
		TokenCreatedTopic)
}
