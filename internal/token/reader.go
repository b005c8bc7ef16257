package token

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Descriptor is the locally cached view of a deployed token. Refreshed
// wholesale by re-issuing all base reads after a confirmed write.
type Descriptor struct {
	Address          string
	Name             string
	Symbol           string
	Decimals         int
	TotalSupply      *big.Int
	Owner            string
	Mintable         bool
	Burnable         bool
	Paused           bool
	WhitelistEnabled bool
}

// OwnedBy reports whether addr is the token owner. Case-insensitive,
// since the ledger and local wallets disagree on address casing.
func (d *Descriptor) OwnedBy(addr string) bool {
	return addr != "" && strings.EqualFold(d.Owner, addr)
}

// FormatSupply renders TotalSupply in whole tokens.
func (d *Descriptor) FormatSupply() string {
	if d.TotalSupply == nil {
		return "0"
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d.Decimals)), nil)
	return new(big.Int).Div(d.TotalSupply, scale).String()
}

// ContractReader issues read calls against a contract.
// contract.Caller satisfies it.
type ContractReader interface {
	Call(contractAddr, funcName string, args ...string) ([]string, error)
	CallAddressList(contractAddr, funcName string, args ...string) ([]string, error)
}

// Reader loads token descriptors from the ledger.
type Reader struct {
	contracts ContractReader
}

// NewReader creates a Reader.
func NewReader(contracts ContractReader) *Reader {
	return &Reader{contracts: contracts}
}

// Load re-issues every base read for addr and returns a fresh
// descriptor. The identity reads (name, symbol, decimals, totalSupply,
// owner) are required; the feature flags are best-effort and read as
// false when the contract does not expose them.
func (r *Reader) Load(addr string) (*Descriptor, error) {
	d := &Descriptor{Address: addr}

	var err error
	if d.Name, err = r.readString(addr, "name"); err != nil {
		return nil, err
	}
	if d.Symbol, err = r.readString(addr, "symbol"); err != nil {
		return nil, err
	}
	if d.Decimals, err = r.readInt(addr, "decimals"); err != nil {
		return nil, err
	}
	if d.TotalSupply, err = r.readBig(addr, "totalSupply"); err != nil {
		return nil, err
	}
	if d.Owner, err = r.readString(addr, "owner"); err != nil {
		return nil, err
	}

	d.Mintable = r.readFlag(addr, "isMintable")
	d.Burnable = r.readFlag(addr, "isBurnable")
	d.Paused = r.readFlag(addr, "paused")
	d.WhitelistEnabled = r.readFlag(addr, "isWhitelistEnabled")

	return d, nil
}

// Members reads one membership list from the ledger.
func (r *Reader) Members(addr string, kind ListKind) ([]string, error) {
	fn := "getWhitelist"
	if kind == ListBlacklist {
		fn = "getBlacklist"
	}
	return r.contracts.CallAddressList(addr, fn)
}

// IsMember reads a single address's membership flag.
func (r *Reader) IsMember(addr string, kind ListKind, account string) (bool, error) {
	fn := "whitelist"
	if kind == ListBlacklist {
		fn = "blacklist"
	}
	v, err := r.readOne(addr, fn, account)
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

func (r *Reader) readOne(addr, fn string, args ...string) (string, error) {
	out, err := r.contracts.Call(addr, fn, args...)
	if err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", fmt.Errorf("%s returned no value", fn)
	}
	return out[0], nil
}

func (r *Reader) readString(addr, fn string) (string, error) {
	return r.readOne(addr, fn)
}

func (r *Reader) readInt(addr, fn string) (int, error) {
	v, err := r.readOne(addr, fn)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s returned %q: %w", fn, v, err)
	}
	return n, nil
}

func (r *Reader) readBig(addr, fn string) (*big.Int, error) {
	v, err := r.readOne(addr, fn)
	if err != nil {
		return nil, err
	}
	n, ok := new(big.Int).SetString(v, 10)
	if !ok {
		return nil, fmt.Errorf("%s returned %q", fn, v)
	}
	return n, nil
}

func (r *Reader) readFlag(addr, fn string) bool {
	v, err := r.readOne(addr, fn)
	return err == nil && v == "true"
}
