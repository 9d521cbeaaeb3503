// Package mmap maps vector files into memory read-only.
//
// Vector datasets such as gist_base.fvecs are several gigabytes; mapping them lets
// the vector source read a random sample of records without pulling the whole file
// through the page cache.
//
//	m, err := mmap.Open("gist_base.fvecs")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessRandom) // sampling
//	n, err := m.ReadAt(buf, off)
//
// On Unix the mapping uses mmap(2) and madvise(2). On Windows it uses
// CreateFileMapping/MapViewOfFile and Advise is a no-op.
package mmap
