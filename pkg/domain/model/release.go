package model

// Version is the canonical release version derived from a tag ref, with the
// recognized prefix stripped (e.g. "refs/tags/v1.2.3" -> "1.2.3").
type Version string

// ReleaseHandle identifies a created remote release and where its assets may
// be uploaded. It lives only for the duration of one pipeline run.
type ReleaseHandle struct {
	ID        int64
	TagName   string
	UploadURL string
	HTMLURL   string
}

// Asset is one uploadable artifact derived from a successful build.
type Asset struct {
	Name        string
	ContentType string
	BinaryPath  string
}

// BuildResult is the per-platform outcome of a build job. Err carries
// build_failed or post_process_failed when the branch did not produce a
// usable binary.
type BuildResult struct {
	Platform   string
	BinaryPath string
	Err        error
}

// OK reports whether the build produced a publishable binary
func (r *BuildResult) OK() bool {
	return r != nil && r.Err == nil
}
