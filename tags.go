package silo

import (
	"iter"
	"log/slog"

	"github.com/willf/bitset"
)

// TagIndex keeps many-to-many tag membership. Each tag owns a dense
// bitset bucket keyed by entity id; the reverse direction (all tags
// of one entity) is computed by scanning, not stored.
//
// The index does not watch entity lifecycles: removing an entity from
// the store leaves its tags behind until callers untag it, and stale
// ids inside a bucket are an expected runtime condition.
type TagIndex struct {
	log     *slog.Logger
	buckets map[string]*bitset.BitSet
}

func NewTagIndex(log *slog.Logger) *TagIndex {
	if log == nil {
		log = slog.Default()
	}
	return &TagIndex{
		log:     log,
		buckets: map[string]*bitset.BitSet{},
	}
}

// Add puts the entity into the tag's bucket, creating the bucket on
// first use.
func (t *TagIndex) Add(id EntityID, tag string) {
	bucket, ok := t.buckets[tag]
	if !ok {
		bucket = bitset.New(64)
		t.buckets[tag] = bucket
	}
	bucket.Set(uint(id))
}

// Remove takes the entity out of the tag's bucket. Removing the last
// member deletes the bucket entirely so empty buckets never
// accumulate.
func (t *TagIndex) Remove(id EntityID, tag string) {
	bucket, ok := t.buckets[tag]
	if !ok {
		return
	}

	bucket.Clear(uint(id))
	if bucket.Count() == 0 {
		delete(t.buckets, tag)
	}
}

// EntitiesWith returns the tag's bucket, or nil when no entity
// carries the tag. The bitset is live; callers must not mutate it.
func (t *TagIndex) EntitiesWith(tag string) *bitset.BitSet {
	return t.buckets[tag]
}

// Has reports whether the entity carries the tag.
func (t *TagIndex) Has(id EntityID, tag string) bool {
	bucket, ok := t.buckets[tag]
	return ok && bucket.Test(uint(id))
}

// Entities yields the members of a tag's bucket in increasing id
// order. Yields nothing for unknown tags.
func (t *TagIndex) Entities(tag string) iter.Seq[EntityID] {
	return func(yield func(EntityID) bool) {
		bucket, ok := t.buckets[tag]
		if !ok {
			return
		}

		for i, ok := bucket.NextSet(0); ok; i, ok = bucket.NextSet(i + 1) {
			if !yield(EntityID(i)) {
				return
			}
		}
	}
}

// Single resolves a tag that callers expect to name one canonical
// entity ("the" player, "the" exit). When several entities share the
// tag this logs a warning and returns the first member yielded, which
// depends on the backing set and must not be treated as stable.
func (t *TagIndex) Single(tag string) (EntityID, bool) {
	bucket, ok := t.buckets[tag]
	if !ok {
		return 0, false
	}

	if bucket.Count() > 1 {
		t.log.Warn("tag is ambiguous, using first member",
			"tag", tag, "members", bucket.Count())
	}

	i, ok := bucket.NextSet(0)
	if !ok {
		return 0, false
	}
	return EntityID(i), true
}

// TagsFor scans all buckets and returns the tags the entity carries.
func (t *TagIndex) TagsFor(id EntityID) []string {
	var tags []string
	for tag, bucket := range t.buckets {
		if bucket.Test(uint(id)) {
			tags = append(tags, tag)
		}
	}
	return tags
}
