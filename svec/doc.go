// Package svec provides Vec, a growable sequence whose indices stay stable.
//
// An element keeps the index it was given for as long as it lives in the
// vector. Removing an element leaves a hole instead of shifting the tail,
// so removal is O(1) and every other index stays valid. Holes are only
// reclaimed by an explicit call to Compact, which returns a Remap that
// describes where every moved element went.
//
// Push always appends. Holes are refilled only by InsertAt, which refuses
// to overwrite an occupied slot; overwriting is done with Replace.
//
// A Vec is not safe for concurrent use. Mutating a Vec while ranging over
// one of its iterators is not supported; queue the changes in a Batch and
// flush it once iteration is done.
package svec
