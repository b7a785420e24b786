// Package buildinfo carries the release stamp linked into the card10 host
// simulator, e.g.
//
//	-ldflags "-X card10/internal/buildinfo.Version=v0.3.0 -X card10/internal/buildinfo.Commit=$(git rev-parse --short HEAD)"
package buildinfo

// Name is the program name shown in window titles and -version output.
const Name = "card10-sim"

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func released() bool { return Version != "" && Version != "dev" }

func stamped() bool { return Commit != "" && Commit != "unknown" }

// Short names the build in one token: the release tag, else the commit.
func Short() string {
	switch {
	case released():
		return Version
	case stamped():
		return Commit
	}
	return "dev"
}

// Title is the window title for the simulated badge.
func Title() string { return "card10 (" + Short() + ")" }

// String is the -version line.
func String() string {
	return Name + " " + Version + " (" + Commit + ", " + Date + ")"
}
