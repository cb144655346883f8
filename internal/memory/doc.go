// Package memory configures Go's runtime memory limit for containerized
// deployments.
//
// Unlike GOMAXPROCS, which Go detects from cgroup CPU limits automatically,
// GOMEMLIMIT must be set explicitly or the runtime will happily grow the heap
// past the container's memory limit and get OOM-killed. Image decoding is
// particularly exposed: a single large raster can allocate hundreds of
// megabytes, and libvips allocations live outside the Go heap entirely.
//
// Call [ConfigureFromEnv] at the top of main, before significant allocations:
//
//	func main() {
//	    memory.ConfigureFromEnv()
//	    // ...
//	}
//
// Configuration comes from three environment variables:
//
//   - GOMEMLIMIT: standard Go variable; if set it takes precedence and this
//     package only reports it.
//   - MEMORY_LIMIT: container memory limit in bytes, typically injected via
//     the Kubernetes Downward API (resourceFieldRef: limits.memory).
//   - MEMORY_RATIO: fraction of MEMORY_LIMIT given to the Go heap, between
//     0.0 and 1.0. Defaults to 0.75, leaving the rest for libvips caches,
//     CGO allocations, and goroutine stacks.
//
// GOMEMLIMIT is a soft limit: it only makes the garbage collector more
// aggressive as the heap approaches it, and it does not bound CGO memory.
// Keep the ratio conservative on hosts doing heavy vips work.
package memory
