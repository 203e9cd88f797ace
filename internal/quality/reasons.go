package quality

// RejectionReasons is the fixed list offered at the unloading checkpoint.
// The terms are the Dutch shop-floor vocabulary printed on the reject cards.
var RejectionReasons = []string{
	"TF te dun",
	"TF te dik",
	"TW te dun",
	"TW te dik",
	"Wikkelfout",
	"Delaminatie",
	"Beschadiging",
	"Overig",
}

// KnownReason reports whether the reason is on the fixed list.
func KnownReason(reason string) bool {
	for _, known := range RejectionReasons {
		if reason == known {
			return true
		}
	}
	return false
}
