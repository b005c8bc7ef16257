package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ABIEntry is one function or event definition in a contract ABI.
type ABIEntry struct {
	Name            string     `json:"name"`
	Type            string     `json:"type"`
	Inputs          []ABIParam `json:"inputs"`
	Outputs         []ABIParam `json:"outputs"`
	StateMutability string     `json:"stateMutability"`
}

// ABIParam is a parameter in an ABI entry.
type ABIParam struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Indexed bool   `json:"indexed"`
}

// IsReadFunction returns true if the function is read-only (view/pure).
func (e ABIEntry) IsReadFunction() bool {
	return e.Type == "function" &&
		(e.StateMutability == "view" || e.StateMutability == "pure")
}

// IsWriteFunction returns true if the function modifies state.
func (e ABIEntry) IsWriteFunction() bool {
	return e.Type == "function" &&
		(e.StateMutability == "nonpayable" || e.StateMutability == "payable")
}

// Signature returns the canonical signature, e.g. "mint(address,uint256)".
func (e ABIEntry) Signature() string {
	types := make([]string, len(e.Inputs))
	for i, p := range e.Inputs {
		types[i] = p.Type
	}
	return e.Name + "(" + strings.Join(types, ",") + ")"
}

// FindFunction locates a function entry by name in an ABI.
func FindFunction(abi []ABIEntry, name string) *ABIEntry {
	for i := range abi {
		if abi[i].Type == "function" && abi[i].Name == name {
			return &abi[i]
		}
	}
	return nil
}

// FindEvent locates an event entry by name in an ABI.
func FindEvent(abi []ABIEntry, name string) *ABIEntry {
	for i := range abi {
		if abi[i].Type == "event" && abi[i].Name == name {
			return &abi[i]
		}
	}
	return nil
}

// ParseABI parses a raw ABI JSON array into entries.
func ParseABI(data []byte) ([]ABIEntry, error) {
	var abi []ABIEntry
	if err := json.Unmarshal(data, &abi); err != nil {
		data = bytes.TrimSpace(data)
		if len(data) > 0 && data[0] == '{' {
			return nil, fmt.Errorf("ABI is a JSON object, not an array — artifacts must be unwrapped via their \"abi\" key")
		}
		return nil, fmt.Errorf("invalid ABI JSON: %w", err)
	}
	return abi, nil
}

// BuiltinKind describes a built-in contract type whose ABI is embedded in
// the binary. New built-ins register themselves via init() in their own
// file and call RegisterBuiltin().
type BuiltinKind struct {
	ID          string     // machine key, e.g. "factory", "customtoken"
	Name        string     // human label
	Description string     // one-line summary
	ABI         []ABIEntry // full ABI, ready to use
}

var builtinRegistry = map[string]BuiltinKind{}

// RegisterBuiltin adds a built-in ABI to the global registry.
func RegisterBuiltin(b BuiltinKind) {
	builtinRegistry[b.ID] = b
}

// GetBuiltinABI returns the ABI entries for a built-in ID, or nil if unknown.
func GetBuiltinABI(id string) []ABIEntry {
	b, ok := builtinRegistry[id]
	if !ok {
		return nil
	}
	return b.ABI
}
