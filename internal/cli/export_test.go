package cli

// Export internal functions for testing.

// RunGet exports runGet for testing.
var RunGet = runGet

// RunClassify exports runClassify for testing.
var RunClassify = runClassify

// RunMediaStatus exports runMediaStatus for testing.
var RunMediaStatus = runMediaStatus

// RunWhoami exports runWhoami for testing.
var RunWhoami = runWhoami

// RunConfigSet exports runConfigSet for testing.
var RunConfigSet = runConfigSet

// RunConfigGet exports runConfigGet for testing.
var RunConfigGet = runConfigGet

// RunConfigList exports runConfigList for testing.
var RunConfigList = runConfigList

// ClampParallel exports clampParallel for testing.
var ClampParallel = clampParallel

// ParseParams exports parseParams for testing.
var ParseParams = parseParams
