// Safetymonitor is a message moderation webhook.
//
// Usage:
//
//	# Start the server (the default command)
//	safetymonitor serve --config config.yaml
//
//	# Check a configuration file
//	safetymonitor validate --config config.yaml
//
//	# Manage the stored lexicon
//	safetymonitor lexicon add zorblax
//
//	# Moderate one message from the terminal
//	safetymonitor check --no-ai "hello there"
package main

func main() {
	Execute()
}
