// Package arp reads the kernel ARP cache without shelling out to arp(8).
// Reading is performed in a single pass:
// - The resolver asks the kernel for the size of the IPv4 ARP dump
// - The resolver fetches the dump into a pooled buffer
// - The walker splits the dump into length-prefixed routing messages
// - The decoder turns each message into an Entry, skipping malformed ones
//
// Only the Darwin routing socket layout is supported. On other platforms a
// custom Querier can be plugged in with WithQuerier.
package arp
