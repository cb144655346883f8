// Package startup handles configuration loading, directory preparation
// and structured startup/shutdown logging.
//
// Configuration comes from environment variables (optionally seeded from
// a .env file) and is collected into a single immutable Config that is
// passed to the components that need it. No package keeps ambient
// mutable configuration state.
package startup
