// ABOUTME: Version information for the voicecart client
// ABOUTME: Product identity used in the dial User-Agent and the TUI header
package version

const (
	// Version is the client release
	Version = "0.3.0"

	// Product is the client name
	Product = "VoiceCart"

	// Manufacturer identifies who ships the client
	Manufacturer = "harperreed"
)

// UserAgent is sent when dialing the assistant
func UserAgent() string {
	return Product + "/" + Version
}
