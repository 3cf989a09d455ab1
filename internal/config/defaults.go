package config

const (
	defaultConfigPath    = "~/.config/misettings/config.toml"
	defaultProjectConfig = "misettings.toml"
	defaultInstallDir    = "."
	defaultDataDir       = "MotionInput/data"
	defaultConfigFile    = "config.json"
	defaultModeFile      = "mode_controller.json"
	defaultStagingFile   = "configMFC.json"
	defaultLogDir        = "~/.local/share/misettings/logs"
	defaultSettleDelayMS = 1000
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultRetentionDays = 30

	RoleServer = "server"
	RoleClient = "client"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InstallDir:  defaultInstallDir,
			DataDir:     defaultDataDir,
			ConfigFile:  defaultConfigFile,
			ModeFile:    defaultModeFile,
			StagingFile: defaultStagingFile,
			LogDir:      defaultLogDir,
		},
		Restart: Restart{
			SettleDelayMS: defaultSettleDelayMS,
		},
		Processes: defaultProcesses(),
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultRetentionDays,
		},
	}
}

// Server first: the client connects to it on startup.
func defaultProcesses() []Process {
	return []Process{
		{
			Name: "motioninput_server.exe",
			Path: "MotionInputServer/motioninput_server.exe",
			Role: RoleServer,
		},
		{
			Name: "motioninput_api.exe",
			Path: "MotionInput/motioninput_api.exe",
			Role: RoleClient,
		},
	}
}
