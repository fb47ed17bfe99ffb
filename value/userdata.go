// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

// Userdata is a placeholder heap kind for foreign objects. Finalizers and
// any foreign-object protocol are explicitly out of scope; Userdata exists
// so the NaN-boxing discrimination set is complete and a Table or Value
// can hold a userdata tag without the evaluator being able to do anything
// useful with it yet.
type Userdata struct {
	tag string
}

// NewUserdata constructs a tagged placeholder userdata.
func NewUserdata(tag string) *Userdata { return &Userdata{tag: tag} }

// Tag returns the caller-supplied label, used only for diagnostics.
func (u *Userdata) Tag() string { return u.tag }

// Visit is a no-op: a Userdata placeholder holds no outgoing references.
func (u *Userdata) Visit(v *Visitor) {}
