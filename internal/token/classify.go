package token

import "strings"

// FaultClass buckets a write-path fault by what the user should see.
type FaultClass int

const (
	// FaultGeneric is anything not matched below; raw text is surfaced.
	// Reverted transactions land here: the revert reason is the message.
	FaultGeneric FaultClass = iota
	// FaultRejected means the user declined signing. Not alarming.
	FaultRejected
	// FaultInsufficientFunds covers balance shortfalls at submission.
	FaultInsufficientFunds
	// FaultGas covers gas estimation and exhaustion faults.
	FaultGas
)

// Matching is substring-based against the phrases different wallets and
// nodes put in their fault text. The vocabulary lives here and nowhere
// else; when a provider changes its wording, this table is the only
// thing to touch.
var (
	rejectedPhrases = []string{
		"user rejected",
		"user denied",
	}
	// unsupportedPhrases is consulted only by the probe-side
	// IsUnsupported. Revert wording appears here because nodes answer a
	// call to a missing method with a plain revert; on the write path
	// the same wording means a real failed transaction, so Classify
	// never reads this table.
	unsupportedPhrases = []string{
		"function selector was not recognized",
		"is not a function",
		"does not exist",
		"execution reverted",
		"reverted",
	}
	fundsPhrases = []string{
		"insufficient funds",
		"insufficient balance",
	}
	gasPhrases = []string{
		"out of gas",
		"gas required exceeds",
		"intrinsic gas too low",
	}
)

// Classify buckets a fault from a mutating call. A nil error is
// FaultGeneric; callers check for nil before classifying.
func Classify(err error) FaultClass {
	if err == nil {
		return FaultGeneric
	}
	text := strings.ToLower(err.Error())

	switch {
	case matchesAny(text, rejectedPhrases):
		return FaultRejected
	case matchesAny(text, fundsPhrases):
		return FaultInsufficientFunds
	case matchesAny(text, gasPhrases):
		return FaultGas
	default:
		return FaultGeneric
	}
}

// IsRejection reports whether err is an explicit signing decline.
func IsRejection(err error) bool {
	return err != nil && Classify(err) == FaultRejected
}

// IsUnsupported reports whether a read probe failed because the
// contract lacks the called method. Expected for contracts that predate
// an optional feature; the syncer degrades silently on it. Write-path
// faults are never bucketed this way.
func IsUnsupported(err error) bool {
	return err != nil && matchesAny(strings.ToLower(err.Error()), unsupportedPhrases)
}

// Code returns the short category tag rendered next to fault messages.
func (c FaultClass) Code() string {
	switch c {
	case FaultRejected:
		return "REJECTED"
	case FaultInsufficientFunds:
		return "FUNDS"
	case FaultGas:
		return "GAS"
	default:
		return "ERROR"
	}
}

func matchesAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
