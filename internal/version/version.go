// Package version holds build metadata injected via ldflags.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// UserAgent identifies the service to upstream APIs, which require a descriptive agent.
func UserAgent(contact string) string {
	ua := "nearwiki/" + Version + " (commit " + Commit + ")"
	if contact != "" {
		ua += " " + contact
	}
	return ua
}
