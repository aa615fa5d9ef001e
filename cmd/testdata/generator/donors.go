package generator

import (
	"fmt"
	"io"
	"math/rand/v2"
)

// States is the pool of donor states, including the empty value real exports contain.
var States = []string{
	"Alabama", "Alaska", "Arizona", "California", "Colorado", "Florida",
	"Georgia", "Illinois", "New York", "North Carolina", "Ohio", "Texas",
	"Washington", "other", "",
}

var cities = []string{"Springfield", "Riverside", "Franklin", "Greenville", "Fairview", "Madison"}

// DonorID formats the id of the i-th generated donor.
func DonorID(i int) string {
	return fmt.Sprintf("%032x", uint64(i)*2654435761)
}

// DonorGenerator writes donors with sequential, unique ids.
type DonorGenerator struct {
	rand *rand.Rand
	next int
}

func (g *DonorGenerator) Init(r *rand.Rand) {
	g.rand = r
	g.next = 0
}

func (g *DonorGenerator) Header() string {
	return "Donor ID,Donor City,Donor State,Donor Is Teacher,Donor Zip"
}

func (g *DonorGenerator) WriteLine(w io.Writer) error {
	teacher := "No"
	if g.rand.IntN(4) == 0 {
		teacher = "Yes"
	}

	_, err := fmt.Fprintf(w, "%s,%s,%s,%s,%03d\n",
		DonorID(g.next),
		cities[g.rand.IntN(len(cities))],
		States[g.rand.IntN(len(States))],
		teacher,
		g.rand.IntN(1000))
	g.next++

	return err
}

func (g *DonorGenerator) Description() string {
	return "Donors: Donor ID,Donor City,Donor State,Donor Is Teacher,Donor Zip"
}

func (g *DonorGenerator) DefaultCount() int64 {
	return 1e4
}
