package distribution

// AvailableParallelism exposes the hardware parallelism seam to tests.
var AvailableParallelism = &availableParallelism
