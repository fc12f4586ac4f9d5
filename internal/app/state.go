package app

// State is the orchestrator lifecycle state.
type State string

const (
	StateIdle       State = "idle"
	StateSyncing    State = "syncing"
	StateInstalling State = "installing"
	StateLaunching  State = "launching"
	StateRunning    State = "running"
	StateFailed     State = "failed"
)

// Trigger names what started a sequence.
type Trigger string

const (
	TriggerInitial Trigger = "initial"
	TriggerRestart Trigger = "restart"
	TriggerCLI     Trigger = "cli"
)

// Step names used in logs and metrics.
const (
	StepSync    = "sync"
	StepInstall = "install"
	StepLaunch  = "launch"
)
