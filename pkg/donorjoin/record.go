package donorjoin

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ResolveHeader returns the zero-based position of each name in header.
// Matching is exact; when a name repeats, the first occurrence wins.
// A *SchemaError lists every name that is absent.
func ResolveHeader(header string, names ...string) ([]int, error) {
	positions := make(map[string]int)
	for i, column := range strings.Split(header, Separator) {
		if _, seen := positions[column]; !seen {
			positions[column] = i
		}
	}

	indices := make([]int, len(names))
	var missing []string
	for i, name := range names {
		pos, ok := positions[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		indices[i] = pos
	}

	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	return indices, nil
}

// splitFields splits line far enough to reach column maxCol.
func splitFields(line string, maxCol int) ([]string, error) {
	fields := strings.SplitN(line, Separator, maxCol+2)
	if len(fields) <= maxCol {
		return nil, &LineShapeError{Column: maxCol, Fields: len(fields)}
	}

	return fields, nil
}

// ParseDonor extracts the id and state fields from a donor line.
func ParseDonor(line string, idCol, stateCol int) (DonorRecord, error) {
	fields, err := splitFields(line, max(idCol, stateCol))
	if err != nil {
		return DonorRecord{}, err
	}

	return DonorRecord{ID: fields[idCol], State: fields[stateCol]}, nil
}

// ParseDonation extracts the donor id and amount from a donation line.
// ok is false when the amount does not parse; such lines contribute nothing.
func ParseDonation(line string, idCol, amountCol int) (rec DonationRecord, ok bool, err error) {
	fields, err := splitFields(line, max(idCol, amountCol))
	if err != nil {
		return DonationRecord{}, false, err
	}

	amount, err := decimal.NewFromString(fields[amountCol])
	if err != nil {
		return DonationRecord{}, false, nil
	}

	return DonationRecord{DonorID: fields[idCol], Amount: amount}, true, nil
}
