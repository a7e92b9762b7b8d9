// Package session keeps each browser session's uploaded dataset in memory.
//
// Entries expire after a period without access and the store holds a bounded
// number of them, evicting the least recently used entry when full. A
// background sweeper removes expired entries until Close is called.
package session
