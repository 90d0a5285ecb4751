package form

// Detection outcomes reported to Observer.DetectionFinished.
const (
	DetectionDetected  = "detected"
	DetectionUnknown   = "unknown"
	DetectionFailed    = "failed"
	DetectionSkipped   = "skipped"
	DetectionDiscarded = "discarded"
)

// Observer is notified of controller activity. DetectionFinished may be
// called from the goroutine running Handle.DetectCountry.
type Observer interface {
	Recomputed(State)
	PhoneSanitized(changed bool)
	PrefixReset()
	CountrySelected(iso2 string)
	DetectionFinished(result string)
}

type nopObserver struct{}

func (nopObserver) Recomputed(State)         {}
func (nopObserver) PhoneSanitized(bool)      {}
func (nopObserver) PrefixReset()             {}
func (nopObserver) CountrySelected(string)   {}
func (nopObserver) DetectionFinished(string) {}
