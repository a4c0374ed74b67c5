package analysis

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"loaneda/internal/dataset"
)

var occupations = []string{"Laborers", "Core staff", "Drivers", ""}

// syntheticCSV builds a deterministic loan-application table with n rows.
// Rows with i < defaults have TARGET=1.
func syntheticCSV(n, defaults int) string {
	var b strings.Builder
	b.WriteString("SK_ID_CURR,TARGET,AMT_INCOME_TOTAL,AMT_CREDIT,EXT_SOURCE_2,DAYS_BIRTH,DAYS_EMPLOYED,OCCUPATION_TYPE,FLAG_OWN\n")
	for i := 0; i < n; i++ {
		target := 0
		if i < defaults {
			target = 1
		}

		income := fmt.Sprintf("%d", 50000+1000*i)
		if i%25 == 3 {
			income = ""
		}

		ext := fmt.Sprintf("%.2f", float64(i%50)/50+0.01)
		if i%10 == 7 {
			ext = ""
		}

		employed := fmt.Sprintf("%d", -(100 + 13*i))
		switch {
		case i%20 == 5:
			employed = "365243"
		case i == 2:
			employed = "4"
		case i == 4:
			employed = "0"
		}

		fmt.Fprintf(&b, "%d,%d,%s,%d,%s,%d,%s,%s,%d\n",
			100000+i, target, income, 200000+5000*(i%37), ext, -(7000 + 97*i), employed,
			occupations[i%len(occupations)], i%2)
	}
	return b.String()
}

func loadCSV(t *testing.T, csv string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Read(strings.NewReader(csv), "synthetic.csv", dataset.Options{})
	require.NoError(t, err)
	return ds
}
