// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package watch re-segments a file every time it changes.
//
// A response being written to disk token by token is the streaming case
// played through the filesystem: each write grows the buffer and the whole
// file is segmented again from scratch. Changes are detected with fsnotify,
// debounced, and delivered to a Handler as an Update. Where fsnotify is not
// available a PollingWatcher compares size and modification time instead.
//
//	w, err := watch.New("reply.md", func(u watch.Update) {
//	    fmt.Println(len(u.Segments), u.Incomplete)
//	}, watch.Options{})
//	if err != nil { ... }
//	defer w.Close()
//	err = w.Watch()
package watch
