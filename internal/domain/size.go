package domain

// SizeClass buckets a merged pull request by total changed lines.
type SizeClass string

const (
	SizeXS  SizeClass = "xs"
	SizeS   SizeClass = "s"
	SizeM   SizeClass = "m"
	SizeL   SizeClass = "l"
	SizeXL  SizeClass = "xl"
	SizeXXL SizeClass = "xxl"
)

// SizeClasses lists every class in ascending order.
var SizeClasses = []SizeClass{SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL}

// sizeThreshold is one row of the classification table: changes strictly
// below Max fall into Class.
type sizeThreshold struct {
	Class SizeClass
	Max   int
}

// sizeThresholds is the single source of truth for PR size classification.
// The last class is open-ended.
var sizeThresholds = []sizeThreshold{
	{SizeXS, 10},
	{SizeS, 30},
	{SizeM, 100},
	{SizeL, 500},
	{SizeXL, 1000},
}

// ClassifyPRSize maps a total changed-line count (additions + deletions) to
// exactly one size class.
func ClassifyPRSize(changes int) SizeClass {
	for _, t := range sizeThresholds {
		if changes < t.Max {
			return t.Class
		}
	}
	return SizeXXL
}

// SizeDescription returns the human-readable range for a class, for report
// legends.
func SizeDescription(c SizeClass) string {
	switch c {
	case SizeXS:
		return "< 10 changes"
	case SizeS:
		return "10-29 changes"
	case SizeM:
		return "30-99 changes"
	case SizeL:
		return "100-499 changes"
	case SizeXL:
		return "500-999 changes"
	default:
		return ">= 1000 changes"
	}
}
