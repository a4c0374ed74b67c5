package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// LoanHeader is the header LoanCSV writes
const LoanHeader = "SK_ID_CURR,TARGET,AMT_INCOME_TOTAL,AMT_CREDIT,EXT_SOURCE_2,DAYS_BIRTH,DAYS_EMPLOYED,OCCUPATION_TYPE"

var occupations = []string{"Laborers", "Core staff", "Drivers", ""}

// LoanCSV builds a deterministic loan-application table with rows rows, the
// first defaults of which have TARGET=1. Every 15th row (offset 4) carries
// the DAYS_EMPLOYED sentinel, every 10th row (offset 7) misses EXT_SOURCE_2
// and every 4th row misses OCCUPATION_TYPE.
func LoanCSV(rows, defaults int) string {
	var b strings.Builder
	b.WriteString(LoanHeader)
	b.WriteByte('\n')
	for i := 0; i < rows; i++ {
		target := 0
		if i < defaults {
			target = 1
		}
		ext := fmt.Sprintf("%.3f", float64(i%40)/40+0.005)
		if i%10 == 7 {
			ext = ""
		}
		employed := -(50 + 11*i)
		if i%15 == 4 {
			employed = 365243
		}
		fmt.Fprintf(&b, "%d,%d,%d,%d,%s,%d,%d,%s\n",
			200000+i, target, 40000+900*i, 150000+3000*(i%29), ext,
			-(9000 + 53*i), employed, occupations[i%len(occupations)])
	}
	return b.String()
}

// WriteFile writes content to name inside a fresh temp dir and returns the path
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteLoanCSV writes LoanCSV(rows, defaults) to a temp file
func WriteLoanCSV(t *testing.T, rows, defaults int) string {
	t.Helper()
	return WriteFile(t, "application_train.csv", LoanCSV(rows, defaults))
}
