package contract

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Keccak256Hex returns the 0x-prefixed keccak-256 digest of data.
func Keccak256Hex(data []byte) string {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// FunctionSelector computes the 4-byte selector for a function entry.
func FunctionSelector(fn *ABIEntry) string {
	return Keccak256Hex([]byte(fn.Signature()))[:10]
}

// EventTopic computes the 32-byte topic0 hash for an event signature
// string, e.g. "TokenCreated(address,string,string,uint256,bool,bool)".
func EventTopic(signature string) string {
	return Keccak256Hex([]byte(signature))
}

// EncodeCall builds calldata: 4-byte selector + head/tail encoded args.
// Static types occupy one head word; dynamic types (string) place an
// offset in the head and their length+data in the tail.
func EncodeCall(fn *ABIEntry, args []string) (string, error) {
	if len(args) != len(fn.Inputs) {
		return "", fmt.Errorf("%s expects %d args, got %d", fn.Name, len(fn.Inputs), len(args))
	}

	headSize := 32 * len(fn.Inputs)
	var head, tail strings.Builder

	for i, param := range fn.Inputs {
		if isDynamicType(param.Type) {
			offset := headSize + tail.Len()/2
			head.WriteString(fmt.Sprintf("%064x", offset))
			enc, err := encodeDynamic(param.Type, args[i])
			if err != nil {
				return "", fmt.Errorf("encoding param %s: %w", param.Name, err)
			}
			tail.WriteString(enc)
			continue
		}
		enc, err := encodeStatic(param.Type, args[i])
		if err != nil {
			return "", fmt.Errorf("encoding param %s: %w", param.Name, err)
		}
		head.WriteString(enc)
	}

	return FunctionSelector(fn) + head.String() + tail.String(), nil
}

func isDynamicType(typ string) bool {
	return typ == "string" || typ == "bytes" || strings.HasSuffix(typ, "[]")
}

// encodeStatic encodes a single static ABI value as a 32-byte hex word.
func encodeStatic(typ, val string) (string, error) {
	switch {
	case typ == "address":
		v := strings.TrimPrefix(val, "0x")
		if len(v) > 64 {
			return "", fmt.Errorf("address too long: %s", val)
		}
		return fmt.Sprintf("%064s", v), nil

	case strings.HasPrefix(typ, "uint") || strings.HasPrefix(typ, "int"):
		n := new(big.Int)
		if _, ok := n.SetString(val, 0); !ok {
			return "", fmt.Errorf("invalid integer: %s", val)
		}
		return fmt.Sprintf("%064x", n), nil

	case typ == "bool":
		if val == "true" || val == "1" {
			return fmt.Sprintf("%064d", 1), nil
		}
		return fmt.Sprintf("%064d", 0), nil

	default:
		return "", fmt.Errorf("unsupported static type %q", typ)
	}
}

// encodeDynamic encodes a dynamic value: one length word followed by the
// data right-padded to a 32-byte boundary.
func encodeDynamic(typ, val string) (string, error) {
	switch typ {
	case "string", "bytes":
		data := []byte(val)
		if typ == "bytes" && strings.HasPrefix(val, "0x") {
			b, err := hex.DecodeString(strings.TrimPrefix(val, "0x"))
			if err != nil {
				return "", fmt.Errorf("invalid bytes value: %w", err)
			}
			data = b
		}
		enc := fmt.Sprintf("%064x", len(data)) + hex.EncodeToString(data)
		if pad := len(enc) % 64; pad != 0 {
			enc += strings.Repeat("0", 64-pad)
		}
		return enc, nil
	default:
		return "", fmt.Errorf("unsupported dynamic type %q", typ)
	}
}

// DecodeResult decodes the raw hex return data for a function.
// Scalar words, strings, and address[] are supported — the full output
// shape of the token and factory contracts.
func DecodeResult(fn *ABIEntry, hexData string) ([]string, error) {
	data, err := hex.DecodeString(strings.TrimPrefix(hexData, "0x"))
	if err != nil {
		return nil, fmt.Errorf("decoding hex result: %w", err)
	}

	if len(fn.Outputs) == 0 {
		return nil, nil
	}

	var results []string
	offset := 0

	for _, out := range fn.Outputs {
		if offset+32 > len(data) {
			results = append(results, "")
			continue
		}

		word := data[offset : offset+32]
		offset += 32

		val, err := decodeWord(out.Type, word, data)
		if err != nil {
			results = append(results, "")
			continue
		}
		results = append(results, val)
	}

	return results, nil
}

// DecodeAddressArray decodes return data whose single output is an
// address[]. Returns the addresses in ledger order, duplicates included.
func DecodeAddressArray(hexData string) ([]string, error) {
	data, err := hex.DecodeString(strings.TrimPrefix(hexData, "0x"))
	if err != nil {
		return nil, fmt.Errorf("decoding hex result: %w", err)
	}
	if len(data) < 64 {
		if len(data) == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("result too short for address[]: %d bytes", len(data))
	}

	offset := new(big.Int).SetBytes(data[:32]).Uint64()
	if offset+32 > uint64(len(data)) {
		return nil, fmt.Errorf("array offset out of range")
	}
	count := new(big.Int).SetBytes(data[offset : offset+32]).Uint64()

	start := offset + 32
	if start+count*32 > uint64(len(data)) {
		return nil, fmt.Errorf("array data truncated: want %d entries", count)
	}

	addrs := make([]string, 0, count)
	for i := uint64(0); i < count; i++ {
		word := data[start+i*32 : start+(i+1)*32]
		addrs = append(addrs, "0x"+hex.EncodeToString(word[12:]))
	}
	return addrs, nil
}

func decodeWord(typ string, word []byte, fullData []byte) (string, error) {
	switch {
	case typ == "address":
		return "0x" + hex.EncodeToString(word[12:]), nil

	case strings.HasPrefix(typ, "uint") || strings.HasPrefix(typ, "int"):
		n := new(big.Int).SetBytes(word)
		return n.String(), nil

	case typ == "bool":
		if word[31] == 1 {
			return "true", nil
		}
		return "false", nil

	case typ == "string":
		// String uses an offset + length encoding.
		offsetVal := new(big.Int).SetBytes(word).Uint64()
		if offsetVal+32 > uint64(len(fullData)) {
			return "", nil
		}
		length := new(big.Int).SetBytes(fullData[offsetVal : offsetVal+32]).Uint64()
		start := offsetVal + 32
		if start+length > uint64(len(fullData)) {
			return "", nil
		}
		return string(fullData[start : start+length]), nil

	default:
		return "0x" + hex.EncodeToString(word), nil
	}
}
