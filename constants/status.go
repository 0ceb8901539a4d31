package constants

// ExtractionStatus is the canonical status for rows in extractions.
type ExtractionStatus string

// Stable values (store these exact strings in DB).
const (
	StatusQueued     ExtractionStatus = "QUEUED"
	StatusRunning    ExtractionStatus = "RUNNING"
	StatusOK         ExtractionStatus = "OK"
	StatusUnresolved ExtractionStatus = "UNRESOLVED" // act body anchor not found
	StatusFailed     ExtractionStatus = "FAILED"
)

// Terminal reports whether no further processing will change s.
func (s ExtractionStatus) Terminal() bool {
	return s == StatusOK || s == StatusUnresolved || s == StatusFailed
}
