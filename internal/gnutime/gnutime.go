package gnutime

import (
	"os"
	"os/exec"
	"strings"
)

// reportFormat keeps the resource report line oriented as key:value pairs
// so ParseReport can skip anything it does not recognize.
const reportFormat = "wall:%e\nuser:%U\nsys:%S\ncpu:%P\nmaxrss:%M"

// Facility is a handle to a time binary that Detect confirmed to be the
// GNU variant. Only the GNU variant supports the -f report format.
type Facility struct {
	binPath string
}

// Detect probes the candidate binaries and returns a handle to the first
// one that self-identifies as GNU time. With no candidates it checks
// /usr/bin/time and then PATH. Detection is a pure query: it installs
// nothing and caches nothing, so every invocation observes the current
// state of the environment.
func Detect(candidates ...string) (*Facility, bool) {
	if len(candidates) == 0 {
		candidates = defaultCandidates()
	}
	for _, bin := range candidates {
		if isGnuTime(bin) {
			return &Facility{binPath: bin}, true
		}
	}
	return nil, false
}

func defaultCandidates() []string {
	candidates := []string{"/usr/bin/time"}
	// LookPath only resolves real files, never the shell builtin.
	if path, err := exec.LookPath("time"); err == nil && path != candidates[0] {
		candidates = append(candidates, path)
	}
	return candidates
}

func isGnuTime(bin string) bool {
	out, err := exec.Command(bin, "--version").CombinedOutput()
	if err != nil && len(out) == 0 {
		return false
	}
	return strings.Contains(string(out), "GNU")
}

// BinPath returns the location of the probed binary.
func (f *Facility) BinPath() string {
	return f.binPath
}

// Wrap returns an argv that runs buildCmd under the time binary, with the
// resource report directed to reportPath instead of stderr so it cannot
// mix into the captured build output.
func (f *Facility) Wrap(reportPath string, buildCmd []string) []string {
	argv := []string{f.binPath, "-o", reportPath, "-f", reportFormat}
	argv = append(argv, buildCmd...)
	return argv
}

// NewReportFile creates an empty temp file to receive the resource report.
// The caller removes it once the report has been read.
func NewReportFile() (string, error) {
	file, err := os.CreateTemp("", "gnutime.*.txt")
	if err != nil {
		return "", err
	}
	err = file.Close()
	if err != nil {
		return "", err
	}
	return file.Name(), nil
}
