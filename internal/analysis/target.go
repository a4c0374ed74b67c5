package analysis

import (
	"loaneda/internal/dataset"
	"loaneda/pkg/contracts/domain"
)

// TargetLabels names the classes of the binary default flag
var TargetLabels = map[int]string{
	0: "Repaid",
	1: "Default",
}

// TargetDistribution counts rows per target class. Proportions are over the
// rows with a target value; missing targets are counted separately.
func TargetDistribution(ds *dataset.Dataset, col string) (domain.TargetDistribution, error) {
	if err := ds.ValidateBinary(col); err != nil {
		return domain.TargetDistribution{}, err
	}
	values, err := ds.Floats(col)
	if err != nil {
		return domain.TargetDistribution{}, err
	}

	var counts [2]int
	dist := domain.TargetDistribution{Column: col}
	for _, v := range values {
		if isMissing(v) {
			dist.Missing++
			continue
		}
		counts[int(v)]++
		dist.Total++
	}

	for class, n := range counts {
		tc := domain.TargetClass{
			Value: class,
			Label: TargetLabels[class],
			Count: n,
		}
		if dist.Total > 0 {
			tc.Proportion = float64(n) / float64(dist.Total)
		}
		dist.Classes = append(dist.Classes, tc)
	}

	majority, minority := counts[0], counts[1]
	if minority > majority {
		majority, minority = minority, majority
	}
	if minority > 0 {
		dist.ImbalanceRatio = float64(majority) / float64(minority)
	}
	return dist, nil
}

// targetClasses returns the target as ints with -1 for missing rows
func targetClasses(ds *dataset.Dataset, col string) ([]int, error) {
	values, err := ds.Floats(col)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(values))
	for i, v := range values {
		if isMissing(v) {
			out[i] = -1
			continue
		}
		out[i] = int(v)
	}
	return out, nil
}
