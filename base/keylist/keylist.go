// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package keylist implements an ordered list (slice) of items,
with a map from a key (e.g., names) to indexes,
to support fast lookup by name. Additional alias keys can
map onto an existing item without adding to the ordered list,
which is how registries expose alternate names for an entry.
*/
package keylist

import (
	"fmt"
	"slices"
)

// List implements an ordered list (slice) of Values,
// with a map from a key (e.g., names) to indexes,
// to support fast lookup by name.
type List[K comparable, V any] struct {
	// Values is the ordered slice of items.
	Values []V

	// Keys is the ordered list of keys, in same order as [List.Values]
	Keys []K

	// indexes is the key-to-index mapping.
	indexes map[K]int

	// aliases maps alternate keys to the primary key.
	aliases map[K]K
}

// New returns a new [List].  The zero value
// is usable without initialization, so this is
// just a simple standard convenience method.
func New[K comparable, V any]() *List[K, V] {
	return &List[K, V]{}
}

// initIndexes ensures that the index map exists.
func (kl *List[K, V]) initIndexes() {
	if kl.indexes == nil {
		kl.indexes = make(map[K]int)
	}
}

// Reset resets the list, removing any existing elements and aliases.
func (kl *List[K, V]) Reset() {
	kl.Values = nil
	kl.Keys = nil
	kl.indexes = nil
	kl.aliases = nil
}

// Len returns the number of items in the list.
func (kl *List[K, V]) Len() int {
	if kl == nil {
		return 0
	}
	return len(kl.Values)
}

// Set sets given key to given value, adding to the end of the list
// if not already present, and otherwise replacing with this new value.
// This is the same semantics as a Go map.
// See [List.Add] for version that only adds and does not replace.
func (kl *List[K, V]) Set(key K, val V) {
	kl.initIndexes()
	if idx, ok := kl.indexes[key]; ok {
		kl.Values[idx] = val
		return
	}
	kl.indexes[key] = len(kl.Values)
	kl.Values = append(kl.Values, val)
	kl.Keys = append(kl.Keys, key)
}

// Add adds an item to the list with given key,
// An error is returned if the key is already on the list.
// See [List.Set] for a method that automatically replaces.
func (kl *List[K, V]) Add(key K, val V) error {
	kl.initIndexes()
	if _, ok := kl.indexes[key]; ok {
		return fmt.Errorf("keylist.Add: key %v is already on the list", key)
	}
	kl.Set(key, val)
	return nil
}

// SetAlias makes alias resolve to the item stored under key.
// An error is returned if key is not on the list, or if alias
// is itself a primary key.
func (kl *List[K, V]) SetAlias(alias, key K) error {
	if _, ok := kl.indexes[key]; !ok {
		return fmt.Errorf("keylist.SetAlias: key %v is not on the list", key)
	}
	if _, ok := kl.indexes[alias]; ok {
		return fmt.Errorf("keylist.SetAlias: alias %v is already a key", alias)
	}
	if kl.aliases == nil {
		kl.aliases = make(map[K]K)
	}
	kl.aliases[alias] = key
	return nil
}

// Resolve returns the primary key for given key or alias,
// and false if neither is known.
func (kl *List[K, V]) Resolve(key K) (K, bool) {
	if _, ok := kl.indexes[key]; ok {
		return key, true
	}
	if pk, ok := kl.aliases[key]; ok {
		return pk, true
	}
	var zk K
	return zk, false
}

// IndexByKey returns the index of the given key or alias, or -1 if not found.
func (kl *List[K, V]) IndexByKey(key K) int {
	pk, ok := kl.Resolve(key)
	if !ok {
		return -1
	}
	return kl.indexes[pk]
}

// At returns the value corresponding to the given key or alias,
// with a zero value returned for a missing key. See [List.AtTry]
// for one that returns a bool for missing keys.
func (kl *List[K, V]) At(key K) V {
	v, _ := kl.AtTry(key)
	return v
}

// AtTry returns the value corresponding to the given key or alias,
// with false returned for a missing key, in case the zero value
// is not diagnostic.
func (kl *List[K, V]) AtTry(key K) (V, bool) {
	idx := kl.IndexByKey(key)
	if idx < 0 {
		var zv V
		return zv, false
	}
	return kl.Values[idx], true
}

// AllKeys returns the primary keys followed by the aliases, sorted within
// each group, for use in suggestions and listings.
func (kl *List[K, V]) AllKeys(cmp func(a, b K) int) []K {
	keys := slices.Clone(kl.Keys)
	slices.SortFunc(keys, cmp)
	als := make([]K, 0, len(kl.aliases))
	for a := range kl.aliases {
		als = append(als, a)
	}
	slices.SortFunc(als, cmp)
	return append(keys, als...)
}
