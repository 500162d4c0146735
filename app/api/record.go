package api

import "maps"

// Key identifies a record in the remote store.
type Key struct {
	Namespace string
	SetName   string
	Digest    []byte
	UserKey   any // nil unless the key was stored with the record
}

// Set copies other into k, so a caller-owned container observes the same value.
// The digest is copied into k's own buffer; UserKey is shared with other.
func (k *Key) Set(other *Key) {
	if other == nil {
		*k = Key{}
		return
	}

	k.Namespace = other.Namespace
	k.SetName = other.SetName

	switch {
	case other.Digest == nil:
		k.Digest = nil
	case k.Digest == nil:
		k.Digest = make([]byte, len(other.Digest))
		copy(k.Digest, other.Digest)
	default:
		k.Digest = append(k.Digest[:0], other.Digest...)
	}

	k.UserKey = other.UserKey
}

// Record is the payload delivered together with a Key. The bridge never looks inside Bins.
type Record struct {
	Bins       map[string]any
	Generation uint32
	Expiration uint32
}

// Set copies other into r. The bin map is cloned, bin values are shared with other.
func (r *Record) Set(other *Record) {
	if other == nil {
		*r = Record{}
		return
	}

	r.Bins = maps.Clone(other.Bins)
	r.Generation = other.Generation
	r.Expiration = other.Expiration
}
