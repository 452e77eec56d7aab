package orchestrator

// Stage is the position of the session in the checkout flow.
type Stage int

const (
	StageBrowsing Stage = iota
	StageProductDetail
	StageCartOpen
	StageAddressEntry
	StageContactEntry
	StageSubmitting
	StageConfirmed
)

var stageNames = [...]string{
	StageBrowsing:      "browsing",
	StageProductDetail: "product_detail",
	StageCartOpen:      "cart_open",
	StageAddressEntry:  "address_entry",
	StageContactEntry:  "contact_entry",
	StageSubmitting:    "submitting",
	StageConfirmed:     "confirmed",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// modal reports whether the stage shows something in the modal.
func (s Stage) modal() bool {
	return s != StageBrowsing
}
