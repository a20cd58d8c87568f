package main

import (
	"devstrap/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point.
// It delegates to cmd.Execute() which handles command line argument parsing and execution.
//
// devstrap automates setting up a Node.js developer environment on macOS,
// Windows, and Linux:
//   - Detects the platform package manager once at startup (Homebrew,
//     winget/Chocolatey, or apt/dnf/yum) and delegates every install to it
//   - Walks a fixed, ordered tool sequence (package manager, git, version
//     manager, Node.js, yarn, pnpm, global packages, editor, extensions,
//     Docker), probing each tool's presence first so re-runs only act on
//     what is missing
//   - Obtains the requested Node.js version through nvm, with a direct
//     download of the official nodejs.org archive as the fallback
//   - Copies .npmrc/.yarnrc templates into the home directory and appends
//     shell-profile lines only when they are not already present
//   - Prints a final summary of every tool's installed version
//
// Error handling strategy:
//   - Usage and environment errors (bad flags, unsupported platform,
//     missing Windows elevation) exit immediately with status 1
//   - A failing install step is recorded and the run continues; failures
//     are listed in the final summary, and the process exits non-zero only
//     when a required step failed
func main() {
	cmd.Execute()
}
