package constants

const (
	AppName            = "onboard"
	DefaultKeyringUser = "remote-connection"
	DefaultConfigDir   = "~/.config/onboard"
	DefaultConfigFile  = "~/.config/onboard/config.yaml"
	DefaultDBPath      = "~/.config/onboard/onboard.db"
	Version            = "v0.3.0"

	// DateFormat is the day format used for activity buckets (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Storage keys, shared by every local provider
	KeyConfirmations = "training-confirmations"
	KeyUser          = "training-system-user"
	KeyImportedTasks = "training-tasks-csv"

	// Environment overrides
	EnvRemoteDSN = "ONBOARD_REMOTE_DSN"

	// Demo login
	DemoUserID     = "demo-user-001"
	DemoUserName   = "Demo User"
	DefaultTrainee = "Trainee"
	UnknownRole    = "Position unknown"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "onboard-"
	BackupFileSuffix = ".db"

	// Lock
	LockfileName = "onboard.lock"

	// Filter tabs
	TabAll       = "all"
	TabPending   = "pending"
	TabCompleted = "completed"

	// HeatmapWeeks is how many week columns the activity heatmap shows
	HeatmapWeeks = 26
)
