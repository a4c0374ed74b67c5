package analysis

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loaneda/pkg/contracts/domain"
)

func TestMissingness(t *testing.T) {
	csv := "A,B,C,D\n" +
		"1,,x,1\n" +
		"2,,,2\n" +
		"3,5,y,3\n" +
		",6,z,4\n"
	ds := loadCSV(t, csv)

	got, err := Missingness(ds)
	require.NoError(t, err)

	// D has no missing values and is excluded
	assert.Equal(t, []domain.MissingColumn{
		{Name: "B", Missing: 2, Fraction: 0.5},
		{Name: "A", Missing: 1, Fraction: 0.25},
		{Name: "C", Missing: 1, Fraction: 0.25},
	}, got)
}

func TestMissingness_MatchesCounts(t *testing.T) {
	ds := loadCSV(t, syntheticCSV(100, 8))

	got, err := Missingness(ds)
	require.NoError(t, err)

	byName := make(map[string]domain.MissingColumn)
	for _, m := range got {
		byName[m.Name] = m
		assert.Greater(t, m.Missing, 0)
	}

	for _, col := range ds.Columns() {
		n, err := ds.MissingCount(col)
		require.NoError(t, err)
		m, listed := byName[col]
		if n == 0 {
			assert.False(t, listed, col)
			continue
		}
		require.True(t, listed, col)
		assert.Equal(t, float64(n)/float64(ds.Rows()), m.Fraction, col)
	}

	// 100 rows: income missing at i%25==3, ext source at i%10==7, occupation every 4th row
	assert.Equal(t, 4, byName["AMT_INCOME_TOTAL"].Missing)
	assert.Equal(t, 10, byName["EXT_SOURCE_2"].Missing)
	assert.Equal(t, 25, byName["OCCUPATION_TYPE"].Missing)
	assert.Equal(t, "OCCUPATION_TYPE", got[0].Name)
}

func TestTargetDistribution_Imbalance(t *testing.T) {
	var b strings.Builder
	b.WriteString("TARGET\n")
	for i := 0; i < 100; i++ {
		if i < 8 {
			b.WriteString("1\n")
		} else {
			b.WriteString("0\n")
		}
	}
	ds := loadCSV(t, b.String())

	dist, err := TargetDistribution(ds, "TARGET")
	require.NoError(t, err)

	require.Len(t, dist.Classes, 2)
	assert.Equal(t, 0, dist.Classes[0].Value)
	assert.Equal(t, 92, dist.Classes[0].Count)
	assert.Equal(t, 0.92, dist.Classes[0].Proportion)
	assert.Equal(t, 1, dist.Classes[1].Value)
	assert.Equal(t, 8, dist.Classes[1].Count)
	assert.Equal(t, 0.08, dist.Classes[1].Proportion)
	assert.InDelta(t, 1.0, dist.Classes[0].Proportion+dist.Classes[1].Proportion, 1e-12)
	assert.Equal(t, 100, dist.Total)
	assert.InDelta(t, 11.5, dist.ImbalanceRatio, 1e-12)
}

func TestTargetDistribution_MissingAndSingleClass(t *testing.T) {
	ds := loadCSV(t, "TARGET,X\n0,a\n,b\n0,c\n")

	dist, err := TargetDistribution(ds, "TARGET")
	require.NoError(t, err)
	assert.Equal(t, 2, dist.Total)
	assert.Equal(t, 1, dist.Missing)
	assert.Equal(t, 1.0, dist.Classes[0].Proportion)
	assert.Equal(t, 0, dist.Classes[1].Count)
	assert.Zero(t, dist.ImbalanceRatio)
}

func TestSummarize(t *testing.T) {
	ds := loadCSV(t, "ID,AMOUNT,CITY\n1,2,x\n2,4,y\n3,,x\n4,9,\n")

	got, err := Summarize(ds)
	require.NoError(t, err)
	require.Len(t, got, 3)

	amount := got[1]
	assert.Equal(t, "AMOUNT", amount.Name)
	assert.Equal(t, domain.ColumnKindNumeric, amount.Kind)
	assert.Equal(t, 1, amount.Missing)
	assert.Equal(t, 0.75, amount.CompletionRate)
	require.NotNil(t, amount.Stats)
	assert.Equal(t, 3, amount.Stats.Count)
	assert.InDelta(t, 5.0, amount.Stats.Mean, 1e-12)
	// sample std of {2,4,9}: sqrt(((9)+(1)+(16))/2)
	assert.InDelta(t, math.Sqrt(13), amount.Stats.Std, 1e-12)
	assert.Equal(t, 2.0, amount.Stats.Min)
	assert.Equal(t, 4.0, amount.Stats.Median)
	assert.Equal(t, 9.0, amount.Stats.Max)

	city := got[2]
	assert.Equal(t, domain.ColumnKindCategorical, city.Kind)
	assert.Nil(t, city.Stats)
	assert.Equal(t, 2, city.Unique)
	assert.Equal(t, 0.75, city.CompletionRate)

	assert.Len(t, DisplaySummary(got, 2), 2)
	assert.Len(t, DisplaySummary(got, 20), 3)
}

func TestQualityChecks_Synthetic(t *testing.T) {
	ds := loadCSV(t, syntheticCSV(100, 8))

	rules := []QualityRule{
		{Name: "income_above_percentile", Column: "AMT_INCOME_TOTAL", Kind: domain.QualityAbovePercentile, Percentile: 0.99},
		{Name: "days_employed_positive", Column: "DAYS_EMPLOYED", Kind: domain.QualityPositive},
	}
	findings, err := QualityChecks(ds, rules, QualityOptions{
		SampleRows: 3,
		IDColumn:   "SK_ID_CURR",
		Sentinels:  map[string]float64{"DAYS_EMPLOYED": 365243},
	})
	require.NoError(t, err)
	require.Len(t, findings, 2)

	income := findings[0]
	assert.Equal(t, 96, income.Checked)
	require.NotNil(t, income.Threshold)
	assert.Equal(t, 1, income.Flagged)
	assert.Equal(t, []int{99}, income.SampleRows)
	assert.Equal(t, []string{"100099"}, income.SampleIDs)
	assert.Equal(t, 149000.0, income.MaxFlagged)
	assert.Contains(t, income.Description, "99th percentile")

	employed := findings[1]
	// i == 2 holds 4 and i%20 == 5 holds the sentinel; i == 4 holds 0
	assert.Equal(t, 6, employed.Flagged)
	assert.Equal(t, 5, employed.AtSentinel)
	assert.Equal(t, []int{2, 5, 25}, employed.SampleRows)
	assert.Equal(t, []string{"100002", "100005", "100025"}, employed.SampleIDs)
	assert.Contains(t, employed.Description, "365243")
}

func TestQualityChecks_NonNumericColumn(t *testing.T) {
	ds := loadCSV(t, syntheticCSV(10, 1))
	_, err := QualityChecks(ds, []QualityRule{
		{Name: "bad", Column: "OCCUPATION_TYPE", Kind: domain.QualityPositive},
	}, QualityOptions{})
	assert.Error(t, err)
}

func TestOrdinal(t *testing.T) {
	for p, want := range map[float64]string{0.99: "99th", 0.95: "95th", 0.01: "1st", 0.02: "2nd", 0.03: "3rd", 0.11: "11th", 0.975: "97.5th"} {
		t.Run(fmt.Sprint(p), func(t *testing.T) {
			assert.Equal(t, want, ordinal(p))
		})
	}
}
