package rubinwc

var (
	Version = "v0.0.0-in-progress"
)

// ABIVersion identifies the frozen numeric contract exposed by the abi and
// cshared surfaces. It only changes when a code value or call shape would
// change meaning, which the compatibility policy forbids; additions get new
// codes under the same version.
const ABIVersion = 1

// LibraryVersion returns the semantic version populated at build time via
// ldflags. In development it defaults to v0.0.0-in-progress.
func LibraryVersion() string {
	return Version
}
