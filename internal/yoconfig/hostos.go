package yoconfig

import (
	"bufio"
	"os"
	"strings"
)

// osReleasePath is a var so tests can point it at a fixture file.
var osReleasePath = "/etc/os-release"

// HostOSHint returns a short, human-readable description of the host OS
// (the PRETTY_NAME field from /etc/os-release, or NAME+VERSION if
// PRETTY_NAME is absent) and true, or "", false if the file is absent,
// unreadable, or carries neither field.
func HostOSHint() (string, bool) {
	f, err := os.Open(osReleasePath)
	if err != nil {
		return "", false
	}
	defer f.Close()

	fields := map[string]string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		fields[key] = strings.Trim(val, `"`)
	}

	if pretty := fields["PRETTY_NAME"]; pretty != "" {
		return pretty, true
	}
	name := fields["NAME"]
	version := fields["VERSION"]
	switch {
	case name != "" && version != "":
		return name + " " + version, true
	case name != "":
		return name, true
	default:
		return "", false
	}
}
