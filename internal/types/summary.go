package types

// PairStatus is the pairwise check outcome against one other package
// in the set.
type PairStatus struct {
	Other   string
	Status  Status
	Details string
}

// PackageSummary combines a package's self check with every pairwise
// check involving it. Status follows failure > unknown > success
// precedence over all contributing results.
type PackageSummary struct {
	Package     string
	Status      Status
	SelfStatus  Status
	SelfDetails string
	Pairs       []PairStatus
}

// GridCell is one cell of the dashboard grid. SelfIssue marks a
// pairwise failure that is explained by one of the two packages being
// incompatible with itself.
type GridCell struct {
	RowPackage    string
	ColumnPackage string
	Status        Status
	Details       string
	SelfIssue     bool
}

// Grid is the rendered dashboard model: packages in display order plus
// the lower triangle of cells, self cells on the diagonal.
type Grid struct {
	PyVersion PyVersion
	Packages  []string
	Cells     []GridCell
}
