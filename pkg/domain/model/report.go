package model

// PlatformOutcome records how one platform branch ended.
type PlatformOutcome struct {
	Platform  string
	AssetName string
	Uploaded  bool
	Err       error
}

// Report is the aggregate result of one pipeline run. Outcomes are ordered
// like the configured platform matrix.
type Report struct {
	RunID    string
	Version  Version
	Release  *ReleaseHandle
	Outcomes []PlatformOutcome
}

// Failed reports whether any platform branch failed. Successfully uploaded
// assets from sibling branches stay published either way.
func (r *Report) Failed() bool {
	for _, o := range r.Outcomes {
		if o.Err != nil {
			return true
		}
	}
	return false
}

// Uploaded returns the number of assets that reached the release
func (r *Report) Uploaded() int {
	var n int
	for _, o := range r.Outcomes {
		if o.Uploaded {
			n++
		}
	}
	return n
}
