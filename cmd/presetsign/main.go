package main

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"image-service/internal/signature"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var ok bool
	switch os.Args[1] {
	case "sign":
		ok = signCommand(os.Args[2:])
	case "verify":
		ok = verifyCommand(os.Args[2:])
	case "show":
		ok = showCommand(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", sanitizeCommand(os.Args[1]))
		printUsage()
	}
	if !ok {
		os.Exit(1)
	}
}

// sanitizeCommand returns a safe representation of a command string for
// display, replacing anything outside [a-zA-Z0-9_-] with '_'.
func sanitizeCommand(cmd string) string {
	var b strings.Builder
	b.Grow(len(cmd))
	for _, r := range cmd {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func printUsage() {
	fmt.Println("Preset Signature Management")
	fmt.Println("")
	fmt.Println("Usage: presetsign <command>")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  sign <user-id> <file>                - Sign a preset sidecar in place")
	fmt.Println("  verify <user-id> <file> <signature>  - Recompute a file's signature and compare")
	fmt.Println("  show <file>                          - Print the embedded signature entry")
	fmt.Println("")
	fmt.Println("Environment:")
	fmt.Println("  PRESET_SECRET - Shared signing secret (prompted if unset)")
}

// readSecret returns the shared secret from the environment or an
// echo-free prompt.
func readSecret() (string, bool) {
	if secret := os.Getenv("PRESET_SECRET"); secret != "" {
		return secret, true
	}

	fmt.Print("Signing secret: ")
	secret, err := term.ReadPassword(syscall.Stdin)
	fmt.Println()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading secret: %v\n", err)
		return "", false
	}
	if len(secret) == 0 {
		fmt.Fprintln(os.Stderr, "Error: secret must not be empty")
		return "", false
	}
	return string(secret), true
}

func signCommand(args []string) bool {
	if len(args) != 2 {
		printUsage()
		return false
	}
	userID, path := args[0], args[1]

	secret, ok := readSecret()
	if !ok {
		return false
	}

	engine := signature.NewEngine(secret)
	result, err := engine.Process(path, userID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return false
	}

	fmt.Printf("Signed %s\n", path)
	fmt.Printf("  Owner:     %s\n", result.UserID)
	fmt.Printf("  Signature: %s\n", result.Signature)
	return true
}

// verifyCommand recomputes the signature for (user, file, secret) and
// compares it against the stored value, e.g. one read from a signed
// copy with the show command.
func verifyCommand(args []string) bool {
	if len(args) != 3 {
		printUsage()
		return false
	}
	userID, path, expected := args[0], args[1], args[2]

	secret, ok := readSecret()
	if !ok {
		return false
	}

	match, err := signature.Verify(userID, path, secret, expected)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return false
	}

	if match {
		fmt.Println("Result: VALID")
		return true
	}
	fmt.Println("Result: MISMATCH")
	return false
}

func showCommand(args []string) bool {
	if len(args) != 1 {
		printUsage()
		return false
	}

	// The secret is not needed to read the embedded entry.
	engine := signature.NewEngine("")
	embedded, status := engine.ReadOwner(args[0])
	switch status {
	case signature.StatusInvalidFormat:
		fmt.Fprintln(os.Stderr, "Error: file is not a valid sidecar document")
		return false
	case signature.StatusNoSignature:
		fmt.Fprintln(os.Stderr, "No signature found")
		return false
	}

	fmt.Printf("Owner:     %s\n", embedded.UserID)
	fmt.Printf("Signature: %s\n", embedded.Signature)
	return true
}
