package contract

// TokenFactory deploys CustomToken contracts for a flat native fee and
// records every deployment. `tokenforge create` drives it.
//
// Function selectors:
//
//	createToken(s,s,u256,b,b) → 0xc6fc2aaf
//	getDeployedTokens()       → 0x622ae7aa
//	creationFee()             → 0xdce0b4e4
//	feeReceiver()             → 0xb3f00674
func init() {
	RegisterBuiltin(BuiltinKind{
		ID:          "factory",
		Name:        "TokenFactory",
		Description: "Factory deploying configurable ERC-20 tokens for a flat creation fee.",
		ABI:         FactoryABI,
	})
}

// FactoryABI is the token factory contract interface.
var FactoryABI = []ABIEntry{
	{
		Name: "createToken", Type: "function",
		Inputs: []ABIParam{
			{Name: "name", Type: "string"},
			{Name: "symbol", Type: "string"},
			{Name: "initialSupply", Type: "uint256"},
			{Name: "isMintable", Type: "bool"},
			{Name: "isBurnable", Type: "bool"},
		},
		Outputs:         []ABIParam{{Name: "", Type: "address"}},
		StateMutability: "payable",
	},
	{
		Name: "getDeployedTokens", Type: "function",
		Inputs: nil, Outputs: []ABIParam{{Name: "", Type: "address[]"}},
		StateMutability: "view",
	},
	{
		Name: "creationFee", Type: "function",
		Inputs: nil, Outputs: []ABIParam{{Name: "", Type: "uint256"}},
		StateMutability: "view",
	},
	{
		Name: "feeReceiver", Type: "function",
		Inputs: nil, Outputs: []ABIParam{{Name: "", Type: "address"}},
		StateMutability: "view",
	},
	{
		Name: "TokenCreated",
		Type: "event",
		Inputs: []ABIParam{
			{Name: "tokenAddress", Type: "address", Indexed: true},
			{Name: "name", Type: "string"},
			{Name: "symbol", Type: "string"},
			{Name: "initialSupply", Type: "uint256"},
			{Name: "isMintable", Type: "bool"},
			{Name: "isBurnable", Type: "bool"},
		},
	},
}
