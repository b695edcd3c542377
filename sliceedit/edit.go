// Copyright 2023 Jesus Ruiz. All rights reserved.
// Use of this source code is governed by an Apache-2.0
// license that can be found in the LICENSE file.

// Package sliceedit queues edits on a text and applies them in a single pass,
// on top of rsc.io/edit.
//
// All the offsets refer to the original text, so the edits can be queued in any order.
// Edits must not overlap: rsc.io/edit panics when they do.
package sliceedit

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	"rsc.io/edit"
)

// A Buffer is a queue of edits to apply to a given byte slice.
type Buffer struct {
	ed    *edit.Buffer
	buf   []byte
	edits int
}

// NewBuffer returns a new buffer to accumulate changes to an initial data slice.
// The returned buffer maintains a reference to the data, so the caller must ensure
// the data is not modified until after the Buffer is done being used.
func NewBuffer(buf []byte) *Buffer {
	return &Buffer{
		ed:  edit.NewBuffer(buf),
		buf: buf,
	}
}

// NewBufferString is NewBuffer for a string
func NewBufferString(s string) *Buffer {
	return NewBuffer([]byte(s))
}

// FindAll finds all non-overlapping instances of item in buf.
func FindAll(buf []byte, item string) []int {
	found := []int{}

	if len(item) == 0 {
		return found
	}

	realOffset := 0

	for {
		i := bytes.Index(buf, []byte(item))
		if i == -1 {
			return found
		}
		found = append(found, i+realOffset)
		buf = buf[i+len(item):]
		realOffset = realOffset + i + len(item)
	}
}

// FindWord is like FindAll, but an instance of a command ending in a letter is skipped
// when another letter follows it. FindWord(buf, `\sec`) does not match `\section`.
func FindWord(buf []byte, item string) []int {
	hits := FindAll(buf, item)
	last, _ := utf8.DecodeLastRuneInString(item)
	if !unicode.IsLetter(last) {
		return hits
	}

	words := hits[:0]
	for _, hit := range hits {
		next, _ := utf8.DecodeRune(buf[hit+len(item):])
		if !unicode.IsLetter(next) {
			words = append(words, hit)
		}
	}
	return words
}

// Delete removes the bytes in the range [start, end) of the original data
func (b *Buffer) Delete(start, end int) {
	b.ed.Delete(start, end)
	b.edits++
}

// Replace replaces the bytes in the range [start, end) of the original data with new
func (b *Buffer) Replace(start, end int, new string) {
	b.ed.Replace(start, end, new)
	b.edits++
}

// Insert inserts new at position pos of the original data
func (b *Buffer) Insert(pos int, new string) {
	b.ed.Insert(pos, new)
	b.edits++
}

// DeleteAllString deletes all the instances of s.
func (b *Buffer) DeleteAllString(s string) {
	for _, hit := range FindAll(b.buf, s) {
		b.Delete(hit, hit+len(s))
	}
}

// ReplaceAllString replaces all the instances of old with new.
func (b *Buffer) ReplaceAllString(old string, new string) {
	for _, hit := range FindAll(b.buf, old) {
		b.Replace(hit, hit+len(old), new)
	}
}

// ReplaceAllWord replaces the instances of old found by FindWord
func (b *Buffer) ReplaceAllWord(old string, new string) {
	for _, hit := range FindWord(b.buf, old) {
		b.Replace(hit, hit+len(old), new)
	}
}

// Edits returns the number of edits queued
func (b *Buffer) Edits() int {
	return b.edits
}

// Bytes returns a new byte slice containing the original data
// with the queued edits applied.
func (b *Buffer) Bytes() []byte {
	return b.ed.Bytes()
}

// String returns a string containing the original data
// with the queued edits applied.
func (b *Buffer) String() string {
	return string(b.ed.Bytes())
}
