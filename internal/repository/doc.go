// Package repository holds the storage-level errors shared by every backend.
// Interfaces live next to the services that consume them.
package repository
