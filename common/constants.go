package common

import (
	"time"
)

// Defaults matching the original cluster run. All of them can be overridden
// through the sweep configuration.
const DefaultJitterMin = 5000 * time.Millisecond
const DefaultJitterMax = 6000 * time.Millisecond
const DefaultPenaltyUnit = 120 * time.Second
const DefaultPostDispatchPause = 10 * time.Second
const DefaultWorkerStagger = 5 * time.Second
const DefaultLaunchTimeout = time.Minute

const DefaultSSHPort = 22
const DefaultDiscoveryRetries = 3

// The generator logs the queue size every DefaultQueueMilestone jobs.
const DefaultQueueMilestone = 1000
