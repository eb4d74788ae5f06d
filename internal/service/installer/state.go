package installer

// InstallState collects the answers as env var assignments.
type InstallState struct {
	EnvVars map[string]string
}

func NewInstallState() *InstallState {
	return &InstallState{
		EnvVars: make(map[string]string),
	}
}

func (s *InstallState) Is(key, value string) bool {
	return s.EnvVars[key] == value
}
