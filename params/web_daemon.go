package params

type ListenerConfig struct {
	// Network is the network to listen on.
	// The network must be "tcp", "tcp4", "tcp6", "unix" or "unixpacket".
	Network string
	// Address is the address to listen on.
	Address string
}

type WebDaemonConfig struct {
	ListenerConfig
	DataDir string

	// Detection is the default configuration for detection runs
	// requested over HTTP. Request parameters override it per run.
	Detection *DetectionConfig
}

func DefaultWebListenerConfig() ListenerConfig {
	return ListenerConfig{
		Network: "tcp",
		Address: "localhost:3000",
	}
}

func DefaultWebDaemonConfig() *WebDaemonConfig {
	return &WebDaemonConfig{
		DataDir:        DatadirRoot,
		ListenerConfig: DefaultWebListenerConfig(),
		Detection:      DefaultDetectionConfig(),
	}
}

func DefaultTestWebDaemonConfig() *WebDaemonConfig {
	return &WebDaemonConfig{
		DataDir: "",
		ListenerConfig: ListenerConfig{
			Network: "tcp",
			Address: "localhost:3333",
		},
		Detection: DefaultDetectionConfig(),
	}
}
