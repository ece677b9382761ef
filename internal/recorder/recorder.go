package recorder

// FetchEvent records the outcome of one upstream fetch attempt.
type FetchEvent struct {
	Symbol     string
	Source     string
	Rows       int
	OK         bool
	Err        string
	DurationMS int64
}

// ScanEvent records a whole batch scan: how many instruments were configured
// and how many produced a recommendation. Dip results themselves are never
// persisted; this is operational telemetry only.
type ScanEvent struct {
	Instruments int
	Reported    int
	DurationMS  int64
}

// Recorder persists operational telemetry for debugging upstream flakiness.
type Recorder interface {
	RecordFetch(evt *FetchEvent) error
	RecordScan(evt *ScanEvent) error
	Close() error
}
