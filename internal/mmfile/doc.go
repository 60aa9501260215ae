// Package mmfile maps register image files into memory.
//
// Map gives a read-only view of a whole file. MapRW maps a file read-write,
// growing it to the requested size first; writes through the returned
// Region land in the page cache and reach the file on Flush. A Tracker
// records which byte ranges were written so Flush only syncs dirty pages.
//
// On platforms without mmap the same API is backed by an in-memory copy
// that Flush writes back.
package mmfile
