//go:build !unix

package resource

// Without access(2) the permission probe is skipped; the subsequent
// open reports permission failures instead.

func readable(path string) bool { return true }

func writable(path string) bool { return true }
