// Package version reports build information for the whispering binaries.
//
//	go build -ldflags "-X github.com/kbukum/whispering/version.Version=1.0.0" ./cmd/whispering
package version
