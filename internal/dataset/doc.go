// Package dataset loads the loan-application table and exposes read-only
// column views over it.
//
// A Dataset wraps a gota DataFrame. It is never mutated after Read returns:
// every accessor hands out a fresh slice, and Subset produces a new Dataset.
// Missing cells are the empty string, NA, NaN, <nil> and null.
//
//	ds, err := dataset.Read(f, "application_train.csv", dataset.Options{})
//	if err != nil {
//	    return err
//	}
//	if err := ds.RequireColumns(cfg.Columns.Required()...); err != nil {
//	    return err
//	}
//	income, _ := ds.Floats("AMT_INCOME_TOTAL")
package dataset
