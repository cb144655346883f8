// Package logging provides leveled logging for the image service.
//
// The level is read once from the LOG_LEVEL environment variable
// (DEBUG=true forces debug). Security-relevant events such as preset
// ownership violations go through Audit so they can be filtered and
// alerted on separately from ordinary errors.
package logging
