package report

import (
	"fmt"
	"math"

	"loaneda/pkg/contracts/domain"
)

// Commentary returns the narrative sentences for rep, in report order:
// class balance, missingness, the strongest correlation, then one sentence
// per quality finding.
func Commentary(rep *domain.Report) []string {
	if rep == nil {
		return nil
	}

	var out []string
	out = append(out, targetSentence(rep.Target))
	out = append(out, missingSentence(rep.Missing, rep.Dataset.Columns))
	if s := correlationSentence(rep.Target.Column, rep.Bivariate.Correlations); s != "" {
		out = append(out, s)
	}
	for _, f := range rep.Quality {
		out = append(out, qualitySentence(f))
	}
	return out
}

func targetSentence(t domain.TargetDistribution) string {
	if t.Total == 0 {
		return fmt.Sprintf("%s has no labelled rows.", t.Column)
	}

	var repaid, defaulted domain.TargetClass
	for _, c := range t.Classes {
		switch c.Value {
		case 0:
			repaid = c
		case 1:
			defaulted = c
		}
	}

	if repaid.Count == 0 || defaulted.Count == 0 {
		only := repaid
		if repaid.Count == 0 {
			only = defaulted
		}
		return fmt.Sprintf("%s holds a single class: all %d labelled rows are %s.", t.Column, t.Total, only.Label)
	}

	s := fmt.Sprintf("%s is imbalanced: %.1f%% of loans were repaid and %.1f%% defaulted, about %.1f majority rows per minority row.",
		t.Column, repaid.Proportion*100, defaulted.Proportion*100, t.ImbalanceRatio)
	if t.ImbalanceRatio < 1.5 {
		s = fmt.Sprintf("%s is roughly balanced: %.1f%% repaid and %.1f%% defaulted.",
			t.Column, repaid.Proportion*100, defaulted.Proportion*100)
	}
	if t.Missing > 0 {
		s += fmt.Sprintf(" %d rows have no label and are left out.", t.Missing)
	}
	return s
}

func missingSentence(missing []domain.MissingColumn, columns int) string {
	if len(missing) == 0 {
		return "No column has missing values."
	}
	top := missing[0]
	return fmt.Sprintf("%d of %d columns have missing values. The most incomplete is %s with %.1f%% of values missing.",
		len(missing), columns, top.Name, top.Fraction*100)
}

func correlationSentence(target string, cs []domain.Correlation) string {
	if len(cs) == 0 {
		return ""
	}
	c := cs[0]
	direction := "higher"
	if c.R < 0 {
		direction = "lower"
	}
	strength := "weak"
	switch r := math.Abs(c.R); {
	case r >= 0.5:
		strength = "strong"
	case r >= 0.3:
		strength = "moderate"
	}
	return fmt.Sprintf("The strongest linear relationship with %s is %s (r = %.3f, %s): higher values go with a %s default rate.",
		target, c.Feature, c.R, strength, direction)
}

func qualitySentence(f domain.QualityFinding) string {
	if f.Flagged == 0 && f.Threshold != nil {
		return fmt.Sprintf("No %s values exceed the threshold of rule %s.", f.Column, f.Rule)
	}
	if f.Flagged == 0 && f.Kind == domain.QualityPositive {
		return fmt.Sprintf("No positive %s values were found.", f.Column)
	}
	return upperFirst(f.Description) + "."
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
