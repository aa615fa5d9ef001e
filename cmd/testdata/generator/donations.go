package generator

import (
	"fmt"
	"io"
	"math/rand/v2"
)

// DonationGenerator writes donations referencing donors produced by a
// DonorGenerator with DonorCount lines.
type DonationGenerator struct {
	DonorCount int

	// UnknownRate is the share of donations pointing at donors that do not exist
	UnknownRate float64

	// BadAmountRate is the share of donations with a malformed amount
	BadAmountRate float64

	rand *rand.Rand
	next int
}

var badAmounts = []string{"", "abc", "n/a", "$5"}

func (g *DonationGenerator) Init(r *rand.Rand) {
	g.rand = r
	g.next = 0
}

func (g *DonationGenerator) Header() string {
	return "Project ID,Donation ID,Donor ID,Donation Included Optional Donation,Donation Amount,Donor Cart Sequence"
}

func (g *DonationGenerator) WriteLine(w io.Writer) error {
	donor := g.rand.IntN(max(g.DonorCount, 1))
	if g.rand.Float64() < g.UnknownRate {
		donor += g.DonorCount
	}

	amount := fmt.Sprintf("%d.%02d", g.rand.IntN(250), g.rand.IntN(100))
	if g.rand.Float64() < g.BadAmountRate {
		amount = badAmounts[g.rand.IntN(len(badAmounts))]
	}

	optional := "No"
	if g.rand.IntN(2) == 0 {
		optional = "Yes"
	}

	_, err := fmt.Fprintf(w, "%08x,%016x,%s,%s,%s,%d\n",
		g.rand.IntN(1<<20),
		g.next,
		DonorID(donor),
		optional,
		amount,
		g.rand.IntN(10)+1)
	g.next++

	return err
}

func (g *DonationGenerator) Description() string {
	return "Donations: Project ID,Donation ID,Donor ID,Donation Included Optional Donation,Donation Amount,Donor Cart Sequence"
}

func (g *DonationGenerator) DefaultCount() int64 {
	return 1e5
}
