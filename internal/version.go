package internal

// Version of this project, set at build time via -ldflags "-X ...".
var Version = struct {
	Version string
	Commit  string
}{
	Version: "0.1.0-dev",
}
