package processor

const (
	versionMajor = 1
	versionMinor = 0
	versionPatch = 0
)

// Version returns the library version as "major.minor.patch".
func Version() string { return "1.0.0" }

// VersionID returns the library version as major*10000 + minor*100 + patch.
func VersionID() int {
	return versionMajor*10000 + versionMinor*100 + versionPatch
}
