package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify pipeline failures. Tags in the first group abort the
// whole run before any build is dispatched; tags in the second group are
// scoped to a single platform branch and are collected at the end of the run.
var (
	ErrTagInvalidTagFormat      = goerr.NewTag("invalid_tag_format")
	ErrTagMissingTarget         = goerr.NewTag("missing_target")
	ErrTagReleaseCreationFailed = goerr.NewTag("release_creation_failed")

	ErrTagBuildFailed       = goerr.NewTag("build_failed")
	ErrTagPostProcessFailed = goerr.NewTag("post_process_failed")
	ErrTagUploadFailed      = goerr.NewTag("upload_failed")
)
