// Package localstore keeps client-side state in a key/value store: the Go
// counterpart of browser localStorage.
//
// Values are JSON documents under fixed keys. Reads never fail: a missing key
// yields the empty default, and a malformed value or backend error is logged
// as a warning and also yields the empty default.
//
// # Usage
//
//	store, err := localstore.OpenDBStore("./client.db")
//	local := localstore.New(store, logger)
//	local.SaveBookmarks(1, []uint{3, 5})
//	ids := local.LoadBookmarks(1)
package localstore
