package analysis

// Analysis is the canonical, normalized result of analyzing one bill. It is
// immutable once constructed; IssuesCount and PotentialSavings are always
// derived from the underlying sequences, never set independently.
type Analysis struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	FileName string `json:"fileName"`
	BillType string `json:"billType"`
	// TotalAmount and PotentialSavings are decimal strings with exactly two
	// fraction digits.
	TotalAmount          string `json:"totalAmount"`
	Summary              string `json:"summary"`
	KeyCharges           []any  `json:"keyCharges"`
	PotentialIssues      []any  `json:"potentialIssues"`
	SavingsOpportunities []any  `json:"savingsOpportunities"`
	NextActions          []any  `json:"nextActions"`
	PotentialSavings     string `json:"potentialSavings"`
	IssuesCount          int    `json:"issuesCount"`
}

// Upload describes one spooled bill handed to the pipeline. The pipeline owns
// the stored object for the duration of the call and releases it on every
// exit path.
type Upload struct {
	StorageKey   string
	OriginalName string
	MimeType     string
	SizeBytes    int64
}
