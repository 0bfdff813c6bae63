package constant

// The runtime.GOOS values the launcher and dependency check branch on.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
	Android = "android"
)
