package charts

import (
	"fmt"

	"loaneda/pkg/contracts/domain"
)

// Figure is one rendered chart
type Figure struct {
	Name    string
	Caption string
	SVG     []byte
}

// Set holds every figure of a report, grouped by report section
type Set struct {
	Missingness  *Figure
	Target       *Figure
	Bivariate    []Figure
	Correlations *Figure
}

// Render draws all figures for rep. Sections with nothing to draw are left nil.
func Render(rep *domain.Report) (*Set, error) {
	set := &Set{}

	svg, err := Missingness(rep.Missing)
	if err != nil {
		return nil, err
	}
	set.Missingness = figure("missingness", "Share of missing values per column, columns without gaps omitted", svg)

	svg, err = Target(rep.Target)
	if err != nil {
		return nil, err
	}
	set.Target = figure("target", "Rows per target class", svg)

	for _, d := range rep.Bivariate.Densities {
		svg, err := Density(d)
		if err != nil {
			return nil, err
		}
		if f := figure("density_"+d.Feature, fmt.Sprintf("Kernel density of %s for repaid and defaulted loans", d.Label), svg); f != nil {
			set.Bivariate = append(set.Bivariate, *f)
		}
	}
	for _, b := range rep.Bivariate.Boxes {
		svg, err := Box(b)
		if err != nil {
			return nil, err
		}
		if f := figure("box_"+b.Feature, fmt.Sprintf("%s quartiles per target class", b.Feature), svg); f != nil {
			set.Bivariate = append(set.Bivariate, *f)
		}
	}
	for _, c := range rep.Bivariate.Categories {
		svg, err := CategoryRates(c)
		if err != nil {
			return nil, err
		}
		if f := figure("rates_"+c.Feature, fmt.Sprintf("Default rate per %s level", c.Feature), svg); f != nil {
			set.Bivariate = append(set.Bivariate, *f)
		}
	}

	svg, err = Correlations(rep.Bivariate.Correlations)
	if err != nil {
		return nil, err
	}
	set.Correlations = figure("correlations", "Numeric features most correlated with the target", svg)

	return set, nil
}

func figure(name, caption string, svg []byte) *Figure {
	if len(svg) == 0 {
		return nil
	}
	return &Figure{Name: name, Caption: caption, SVG: svg}
}
