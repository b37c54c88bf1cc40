package stats

/*
This file defines all the metrics being collected. As new metrics are added please follow this pattern.
*/

const (
	/************************* Generator metrics **************************/
	/*
		the number of configurations pushed onto the job queue
	*/
	GeneratorJobsEnqueuedCounter = "jobsEnqueuedCounter"

	/*
		the number of configurations skipped because a result artifact already existed
	*/
	GeneratorJobsSkippedCounter = "jobsSkippedCounter"

	/************************* Queue metrics **************************/
	/*
		current number of jobs waiting in the shared queue
	*/
	QueueSizeGauge = "queueSizeGauge"

	/*
		number of pushes, including requeues
	*/
	QueuePushCounter = "pushCounter"

	/*
		number of successful pops
	*/
	QueuePopCounter = "popCounter"

	/************************* Dispatcher metrics **************************/
	/*
		jobs dropped because an artifact was found in any result location
	*/
	DispatchAlreadyDoneCounter = "alreadyDoneCounter"

	/*
		remote launch attempts
	*/
	DispatchLaunchCounter = "launchCounter"

	/*
		launches that returned a transport or launch error; the job was requeued
	*/
	DispatchLaunchErrCounter = "launchErrCounter"

	/*
		launches that succeeded but no primary artifact was visible yet; the job was requeued
	*/
	DispatchArtifactMissingCounter = "artifactMissingCounter"

	/*
		launches followed by a visible primary artifact
	*/
	DispatchDispatchedCounter = "dispatchedCounter"

	/*
		time spent in the remote launch call (login + command issuance)
	*/
	DispatchLaunchLatency_ms = "launchLatency_ms"

	/************************* Worker metrics **************************/
	/*
		the number of workers currently looping
	*/
	WorkerRunningGauge = "runningGauge"

	/*
		the current penalty of a worker, scoped by node
	*/
	WorkerPenaltyGauge = "penaltyGauge"

	/*
		the number of workers that observed an empty queue and exited
	*/
	WorkerFinishedCounter = "finishedCounter"

	/************************* Supervisor metrics **************************/
	/*
		the number of nodes returned by node discovery
	*/
	SupervisorNodesGauge = "nodesGauge"

	/*
		the number of workers started by the supervisor
	*/
	SupervisorWorkersStartedCounter = "workersStartedCounter"
)
