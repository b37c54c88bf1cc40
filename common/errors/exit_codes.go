package errors

type ExitCode int

const (
	GenericFailureExitCode ExitCode = 1

	ConfigFailureExitCode    ExitCode = 70
	DiscoveryFailureExitCode ExitCode = 80
	LauncherFailureExitCode  ExitCode = 90
	EndpointFailureExitCode  ExitCode = 100
)
