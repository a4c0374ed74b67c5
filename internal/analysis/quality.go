package analysis

import (
	"fmt"
	"math"

	"loaneda/internal/config"
	"loaneda/internal/dataset"
	apperrors "loaneda/internal/errors"
	"loaneda/pkg/contracts/domain"
)

// QualityRule is one data-quality filter over a numeric column
type QualityRule struct {
	Name       string
	Column     string
	Kind       domain.QualityRuleKind
	Percentile float64
}

// RulesFromConfig converts configured rules
func RulesFromConfig(cfgs []config.QualityRuleConfig) []QualityRule {
	rules := make([]QualityRule, 0, len(cfgs))
	for _, c := range cfgs {
		rules = append(rules, QualityRule{
			Name:       c.Name,
			Column:     c.Column,
			Kind:       domain.QualityRuleKind(c.Kind),
			Percentile: c.Percentile,
		})
	}
	return rules
}

// QualityOptions tunes the findings produced by QualityChecks
type QualityOptions struct {
	// SampleRows caps the flagged rows listed in a finding
	SampleRows int
	// IDColumn, when present, is used to report sample identifiers
	IDColumn string
	// Sentinels maps a column to a placeholder value worth counting
	// separately among its flagged rows
	Sentinels map[string]float64
}

// FlagRows applies rule to values and returns the flagged row indices in
// ascending order. For above_percentile rules threshold is the type-7
// percentile of the finite values and hasThreshold reports whether one
// could be computed. Missing values are never flagged.
func FlagRows(values []float64, rule QualityRule) (flagged []int, threshold float64, hasThreshold bool, err error) {
	var pred func(float64) bool

	switch rule.Kind {
	case domain.QualityAbovePercentile:
		if rule.Percentile <= 0 || rule.Percentile >= 1 {
			return nil, 0, false, apperrors.NewAppValidationError(
				fmt.Sprintf("rule %s: percentile %v outside (0,1)", rule.Name, rule.Percentile))
		}
		threshold, hasThreshold = PercentileOf(values, rule.Percentile)
		if !hasThreshold {
			return nil, 0, false, nil
		}
		pred = func(v float64) bool { return v > threshold }
	case domain.QualityPositive:
		pred = func(v float64) bool { return v > 0 }
	default:
		return nil, 0, false, apperrors.NewAppValidationError(
			fmt.Sprintf("rule %s: unknown kind %q", rule.Name, rule.Kind))
	}

	for i, v := range values {
		if !isMissing(v) && pred(v) {
			flagged = append(flagged, i)
		}
	}
	return flagged, threshold, hasThreshold, nil
}

// QualityCheck evaluates one rule against the dataset
func QualityCheck(ds *dataset.Dataset, rule QualityRule, opts QualityOptions) (domain.QualityFinding, error) {
	values, err := ds.Floats(rule.Column)
	if err != nil {
		return domain.QualityFinding{}, err
	}

	flagged, threshold, hasThreshold, err := FlagRows(values, rule)
	if err != nil {
		return domain.QualityFinding{}, err
	}

	f := domain.QualityFinding{
		Rule:    rule.Name,
		Column:  rule.Column,
		Kind:    rule.Kind,
		Flagged: len(flagged),
	}
	if rule.Kind == domain.QualityAbovePercentile {
		f.Percentile = rule.Percentile
	}
	if hasThreshold {
		t := threshold
		f.Threshold = &t
	}
	for _, v := range values {
		if !isMissing(v) {
			f.Checked++
		}
	}
	if f.Checked > 0 {
		f.Share = float64(f.Flagged) / float64(f.Checked)
	}

	if len(flagged) > 0 {
		f.MaxFlagged = math.Inf(-1)
		for _, i := range flagged {
			f.MaxFlagged = math.Max(f.MaxFlagged, values[i])
		}
	}

	if sentinel, ok := opts.Sentinels[rule.Column]; ok {
		s := sentinel
		f.Sentinel = &s
		for _, i := range flagged {
			if values[i] == sentinel {
				f.AtSentinel++
			}
		}
	}

	if n := min(opts.SampleRows, len(flagged)); n > 0 {
		f.SampleRows = append([]int(nil), flagged[:n]...)
		if opts.IDColumn != "" && ds.Has(opts.IDColumn) {
			sample, err := ds.Subset(f.SampleRows)
			if err != nil {
				return domain.QualityFinding{}, err
			}
			ids, _, err := sample.Strings(opts.IDColumn)
			if err != nil {
				return domain.QualityFinding{}, err
			}
			f.SampleIDs = ids
		}
	}

	f.Description = describeFinding(f)
	return f, nil
}

// QualityChecks evaluates every rule independently and in order
func QualityChecks(ds *dataset.Dataset, rules []QualityRule, opts QualityOptions) ([]domain.QualityFinding, error) {
	out := make([]domain.QualityFinding, 0, len(rules))
	for _, rule := range rules {
		f, err := QualityCheck(ds, rule, opts)
		if err != nil {
			return nil, fmt.Errorf("quality rule %s: %w", rule.Name, err)
		}
		out = append(out, f)
	}
	return out, nil
}

func describeFinding(f domain.QualityFinding) string {
	switch f.Kind {
	case domain.QualityAbovePercentile:
		if f.Threshold == nil {
			return fmt.Sprintf("%s has no values; the %s threshold is not available", f.Column, ordinal(f.Percentile))
		}
		return fmt.Sprintf("%d of %d %s values (%.2f%%) are above the %s percentile of %s",
			f.Flagged, f.Checked, f.Column, f.Share*100, ordinal(f.Percentile), formatNumber(*f.Threshold))
	case domain.QualityPositive:
		d := fmt.Sprintf("%d of %d %s values (%.2f%%) are positive, which is not a valid day count",
			f.Flagged, f.Checked, f.Column, f.Share*100)
		if f.Sentinel != nil && f.AtSentinel > 0 {
			d += fmt.Sprintf("; %d of them hold the placeholder %s", f.AtSentinel, formatNumber(*f.Sentinel))
		}
		return d
	}
	return ""
}

// ordinal renders 0.99 as "99th"
func ordinal(p float64) string {
	pct := math.Round(p*100*1e6) / 1e6
	if pct != math.Trunc(pct) {
		return fmt.Sprintf("%gth", pct)
	}
	n := int(pct)
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.4g", v)
}
