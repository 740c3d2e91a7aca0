package kernel

// ReferenceNo is the human-facing permit application reference
// (e.g. "BP-2025-000123") printed on receipts and quoted by applicants.
type ReferenceNo string

func NewReferenceNo(ref string) ReferenceNo { return ReferenceNo(ref) }
func (r ReferenceNo) String() string        { return string(r) }
func (r ReferenceNo) IsEmpty() bool         { return string(r) == "" }

// TIN is a Philippine Tax Identification Number
type TIN string

// IsValid checks the usual 9- or 12-digit TIN shapes, ignoring dashes
func (t TIN) IsValid() bool {
	digits := 0
	for _, r := range t {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '-':
		default:
			return false
		}
	}
	return digits == 9 || digits == 12
}
