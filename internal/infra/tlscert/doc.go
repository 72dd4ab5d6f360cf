// Package tlscert serves a TLS key pair that follows its files on disk.
//
// A Reloader loads the pair once at construction and again whenever either
// file is written or replaced. A pair that fails to load is logged and the
// previous certificate stays in use.
package tlscert
