package token

import (
	"errors"
	"strings"

	"github.com/tokenforge/tokenforge/internal/chain"
	"github.com/tokenforge/tokenforge/internal/contract"
)

// TokenCreatedSignature is the factory's creation event. The address is
// the sole indexed argument, so it lands in the second topic slot.
const TokenCreatedSignature = "TokenCreated(address,string,string,uint256,bool,bool)"

// TokenCreatedTopic is the precomputed topic0 for TokenCreatedSignature.
var TokenCreatedTopic = contract.EventTopic(TokenCreatedSignature)

// ErrEventNotFound means a confirmed receipt carried no creation event.
// The write landed on-chain but the new token cannot be located locally,
// so callers must surface this as a hard failure.
var ErrEventNotFound = errors.New("creation event not found in receipt logs")

// ExtractCreatedAddress scans logs in order for the first entry whose
// first topic equals topic0 and returns the address packed into its
// second topic: a 32-byte left-padded word whose low 20 bytes are the
// address. Pure; no partial result on failure.
func ExtractCreatedAddress(logs []chain.LogEntry, topic0 string) (string, error) {
	for _, log := range logs {
		if len(log.Topics) < 2 || !strings.EqualFold(log.Topics[0], topic0) {
			continue
		}
		padded := strings.TrimPrefix(log.Topics[1], "0x")
		if len(padded) < 40 {
			continue
		}
		return "0x" + strings.ToLower(padded[len(padded)-40:]), nil
	}
	return "", ErrEventNotFound
}
