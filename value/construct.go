// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

// WrapTableHandle re-wraps an already-allocated *Table as a Handle. Used
// by callers (runtime.Ctx) that hold a long-lived pointer obtained
// outside of InsertObject — e.g. the embedder-constructed global table —
// and need to produce root Values from it for a collection cycle.
func WrapTableHandle(t *Table) Handle[*Table] { return Handle[*Table]{ptr: t} }
