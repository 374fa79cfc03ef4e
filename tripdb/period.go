package tripdb

import "fmt"

// Period selects one monthly snapshot.
type Period struct {
	Year  int
	Month int
}

// String renders the period as YYYY-MM.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// SnapshotName returns the file name of the period's snapshot.
func (p Period) SnapshotName() string {
	return fmt.Sprintf("data-%04d-%02d.parquet", p.Year, p.Month)
}

// viewName returns the per-period view identifier. It is built from the two
// integers only, so it is always a plain identifier.
func (p Period) viewName() string {
	return fmt.Sprintf("trips_%04d_%02d", p.Year, p.Month)
}
