// Command presetsign is an operator tool for preset ownership
// signatures.
//
// It signs a preset sidecar in place for a given user, recomputes a
// file's signature for comparison against a stored value, or prints
// the signature entry embedded in a signed copy. The shared secret
// comes from the PRESET_SECRET environment variable, or is prompted
// for without echo when unset.
//
// Usage:
//
//	presetsign sign <user-id> <file.xmp>
//	presetsign verify <user-id> <file.xmp> <signature>
//	presetsign show <file.xmp>
package main
