package contract

// CustomToken is the configurable ERC-20 the factory deploys: optional
// mint and burn, owner-gated pause, and whitelist/blacklist membership.
// Flag reads revert on contracts compiled without the feature, which is
// how capability probing works.
//
// Function selectors:
//
//	name()                       → 0x06fdde03
//	symbol()                     → 0x95d89b41
//	decimals()                   → 0x313ce567
//	totalSupply()                → 0x18160ddd
//	owner()                      → 0x8da5cb5b
//	isMintable()                 → 0x46b45af7
//	isBurnable()                 → 0x883356d9
//	paused()                     → 0x5c975abb
//	isWhitelistEnabled()         → 0x184d69ab
//	whitelist(address)           → 0x9b19251a
//	blacklist(address)           → 0xf9f92be4
//	getWhitelist()               → 0xd01f63f5
//	getBlacklist()               → 0x338d6c30
//	mint(address,uint256)        → 0x40c10f19
//	burn(uint256)                → 0x42966c68
//	pause()                      → 0x8456cb59
//	unpause()                    → 0x3f4ba83a
//	addToWhitelist(address)      → 0xe43252d7
//	removeFromWhitelist(address) → 0x8ab1d681
//	addToBlacklist(address)      → 0x44337ea1
//	removeFromBlacklist(address) → 0x537df3b6
//	setWhitelistEnabled(bool)    → 0x052d9e7e
//	renounceOwnership()          → 0x715018a6
func init() {
	RegisterBuiltin(BuiltinKind{
		ID:          "customtoken",
		Name:        "CustomToken (configurable ERC-20)",
		Description: "Factory-deployed ERC-20 with optional mint/burn, pause, and membership lists.",
		ABI:         CustomTokenABI,
	})
}

// CustomTokenABI is the factory-deployed token interface.
var CustomTokenABI = []ABIEntry{
	// ── ERC-20 read ──────────────────────────────────────────────────────────
	{
		Name: "name", Type: "function",
		Inputs: nil, Outputs: []ABIParam{{Name: "", Type: "string"}},
		StateMutability: "view",
	},
	{
		Name: "symbol", Type: "function",
		Inputs: nil, Outputs: []ABIParam{{Name: "", Type: "string"}},
		StateMutability: "view",
	},
	{
		Name: "decimals", Type: "function",
		Inputs: nil, Outputs: []ABIParam{{Name: "", Type: "uint8"}},
		StateMutability: "view",
	},
	{
		Name: "totalSupply", Type: "function",
		Inputs: nil, Outputs: []ABIParam{{Name: "", Type: "uint256"}},
		StateMutability: "view",
	},
	{
		Name: "balanceOf", Type: "function",
		Inputs:          []ABIParam{{Name: "account", Type: "address"}},
		Outputs:         []ABIParam{{Name: "", Type: "uint256"}},
		StateMutability: "view",
	},
	// ── Ownable ──────────────────────────────────────────────────────────────
	{
		Name: "owner", Type: "function",
		Inputs: nil, Outputs: []ABIParam{{Name: "", Type: "address"}},
		StateMutability: "view",
	},
	{
		Name: "renounceOwnership", Type: "function",
		Inputs:          nil,
		Outputs:         nil,
		StateMutability: "nonpayable",
	},
	// ── Feature flags ────────────────────────────────────────────────────────
	{
		Name: "isMintable", Type: "function",
		Inputs: nil, Outputs: []ABIParam{{Name: "", Type: "bool"}},
		StateMutability: "view",
	},
	{
		Name: "isBurnable", Type: "function",
		Inputs: nil, Outputs: []ABIParam{{Name: "", Type: "bool"}},
		StateMutability: "view",
	},
	{
		Name: "paused", Type: "function",
		Inputs: nil, Outputs: []ABIParam{{Name: "", Type: "bool"}},
		StateMutability: "view",
	},
	{
		Name: "isWhitelistEnabled", Type: "function",
		Inputs: nil, Outputs: []ABIParam{{Name: "", Type: "bool"}},
		StateMutability: "view",
	},
	// ── Membership reads ─────────────────────────────────────────────────────
	{
		Name: "whitelist", Type: "function",
		Inputs:          []ABIParam{{Name: "account", Type: "address"}},
		Outputs:         []ABIParam{{Name: "", Type: "bool"}},
		StateMutability: "view",
	},
	{
		Name: "blacklist", Type: "function",
		Inputs:          []ABIParam{{Name: "account", Type: "address"}},
		Outputs:         []ABIParam{{Name: "", Type: "bool"}},
		StateMutability: "view",
	},
	{
		Name: "getWhitelist", Type: "function",
		Inputs: nil, Outputs: []ABIParam{{Name: "", Type: "address[]"}},
		StateMutability: "view",
	},
	{
		Name: "getBlacklist", Type: "function",
		Inputs: nil, Outputs: []ABIParam{{Name: "", Type: "address[]"}},
		StateMutability: "view",
	},
	// ── Supply ───────────────────────────────────────────────────────────────
	{
		Name: "mint", Type: "function",
		Inputs:          []ABIParam{{Name: "to", Type: "address"}, {Name: "amount", Type: "uint256"}},
		Outputs:         nil,
		StateMutability: "nonpayable",
	},
	{
		Name: "burn", Type: "function",
		Inputs:          []ABIParam{{Name: "amount", Type: "uint256"}},
		Outputs:         nil,
		StateMutability: "nonpayable",
	},
	// ── Pause ────────────────────────────────────────────────────────────────
	{
		Name: "pause", Type: "function",
		Inputs:          nil,
		Outputs:         nil,
		StateMutability: "nonpayable",
	},
	{
		Name: "unpause", Type: "function",
		Inputs:          nil,
		Outputs:         nil,
		StateMutability: "nonpayable",
	},
	// ── Membership writes ────────────────────────────────────────────────────
	{
		Name: "addToWhitelist", Type: "function",
		Inputs:          []ABIParam{{Name: "account", Type: "address"}},
		Outputs:         nil,
		StateMutability: "nonpayable",
	},
	{
		Name: "removeFromWhitelist", Type: "function",
		Inputs:          []ABIParam{{Name: "account", Type: "address"}},
		Outputs:         nil,
		StateMutability: "nonpayable",
	},
	{
		Name: "addToBlacklist", Type: "function",
		Inputs:          []ABIParam{{Name: "account", Type: "address"}},
		Outputs:         nil,
		StateMutability: "nonpayable",
	},
	{
		Name: "removeFromBlacklist", Type: "function",
		Inputs:          []ABIParam{{Name: "account", Type: "address"}},
		Outputs:         nil,
		StateMutability: "nonpayable",
	},
	{
		Name: "setWhitelistEnabled", Type: "function",
		Inputs:          []ABIParam{{Name: "enabled", Type: "bool"}},
		Outputs:         nil,
		StateMutability: "nonpayable",
	},
	// ── Events ───────────────────────────────────────────────────────────────
	{
		Name:   "Transfer",
		Type:   "event",
		Inputs: []ABIParam{{Name: "from", Type: "address"}, {Name: "to", Type: "address"}, {Name: "value", Type: "uint256"}},
	},
	{
		Name:   "OwnershipTransferred",
		Type:   "event",
		Inputs: []ABIParam{{Name: "previousOwner", Type: "address"}, {Name: "newOwner", Type: "address"}},
	},
}
