package bloom

// Status is the outcome of a uniqueness check for one candidate.
type Status string

const (
	StatusUnique  Status = "unique"
	StatusUsed    Status = "already used"
	StatusInvalid Status = "invalid value"
)

// Result pairs a candidate with its status.
type Result struct {
	Item   string
	Status Status
}

// CheckUniqueness reports, for every candidate in order, whether it was
// probably added to f before. Empty candidates are reported as invalid and
// never looked up. The filter is not modified.
//
// Because the filter can return false positives, StatusUsed means "probably
// used"; StatusUnique is always correct.
func CheckUniqueness(f *Filter, candidates []string) []Result {
	results := make([]Result, 0, len(candidates))

	for _, item := range candidates {
		status := StatusUnique
		switch {
		case item == "":
			status = StatusInvalid
		case f.Contains(item):
			status = StatusUsed
		}
		results = append(results, Result{Item: item, Status: status})
	}

	return results
}
