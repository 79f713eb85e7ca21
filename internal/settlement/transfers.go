package settlement

import (
	"math"
	"sort"
)

// Transfer is one concrete payment realizing the net balances.
type Transfer struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// Balances below this are considered settled; money is tracked to cents.
const epsilon = 0.01

// CalculateTransfers reduces net balances to pairwise payments with a greedy
// match: largest debtor pays largest creditor until one side empties, then
// advance. Balance-conserving, at most debtors+creditors−1 transfers, but
// not guaranteed transfer-count optimal.
func CalculateTransfers(settlements []Settlement) []Transfer {
	balances := make([]Settlement, len(settlements))
	copy(balances, settlements)

	var debtors, creditors []*Settlement
	for i := range balances {
		switch {
		case balances[i].Amount < 0:
			debtors = append(debtors, &balances[i])
		case balances[i].Amount > 0:
			creditors = append(creditors, &balances[i])
		}
	}
	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].Amount < debtors[j].Amount
	})
	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].Amount > creditors[j].Amount
	})

	transfers := []Transfer{}
	d, c := 0, 0
	for d < len(debtors) && c < len(creditors) {
		debtor, creditor := debtors[d], creditors[c]
		amount := math.Min(-debtor.Amount, creditor.Amount)
		if amount > 0 {
			transfers = append(transfers, Transfer{
				From:   debtor.PlayerID,
				To:     creditor.PlayerID,
				Amount: roundCents(amount),
			})
		}
		debtor.Amount += amount
		creditor.Amount -= amount
		if math.Abs(debtor.Amount) < epsilon {
			d++
		}
		if math.Abs(creditor.Amount) < epsilon {
			c++
		}
	}
	return transfers
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
