package wallet

import "math"

// ComputeUsage returns how much of the balance a checkout would draw. It never debits.
func ComputeUsage(useWallet bool, balance, amountDue float64) float64 {
	if !useWallet || balance <= 0 || amountDue <= 0 {
		return 0
	}
	return math.Min(balance, amountDue)
}
