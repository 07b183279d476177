package types

// Version is the application version, overridden at build time via ldflags
var Version = "dev"

// DefaultTagPrefix marks release tags; everything after it is the version
const DefaultTagPrefix = "refs/tags/v"

// DefaultBinaryName is the binary built and published by default
const DefaultBinaryName = "acre"

// AssetContentType is used for every uploaded release asset
const AssetContentType = "application/octet-stream"
