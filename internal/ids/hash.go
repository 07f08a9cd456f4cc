// Package ids derives the content-addressed identifiers the rest of the
// compiler uses in place of pointers: TypeHash for types, FunctionId (an
// alias of TypeHash) for functions and vtable/itable slots.
//
// Hashing is FNV-1a 64-bit over a canonical byte encoding of the identity
// tuple. No third-party hashing library is used here: hash/fnv is the
// standard, idiomatic choice for a non-cryptographic content hash and none
// of the examples in the pack reach for an external hashing dependency for
// this kind of internal identifier derivation.
package ids

import (
	"hash/fnv"
	"strconv"
)

// TypeHash is a 64-bit content-addressed identifier for a type, function,
// or vtable/itable slot.
type TypeHash uint64

// FunctionId is an alias of TypeHash; functions are identified the same way
// as types, just hashed from a different identity tuple.
type FunctionId = TypeHash

// Reserved sentinel values, carved out by hashing well-known marker
// strings no user-visible qualified name can produce (qualified names never
// contain a leading "$").
var (
	Empty         = HashQualifiedName("$empty")
	ScriptAddRef  = HashQualifiedName("$script_addref")
	ScriptRelease = HashQualifiedName("$script_release")
)

func sum(parts ...string) TypeHash {
	h := fnv.New64a()
	for i, p := range parts {
		if i > 0 {
			_, _ = h.Write([]byte{0})
		}
		_, _ = h.Write([]byte(p))
	}
	return TypeHash(h.Sum64())
}

// HashQualifiedName derives a TypeHash from a fully qualified name, e.g.
// "Game::Entities::TSprite".
func HashQualifiedName(qualifiedName string) TypeHash {
	return sum("type", qualifiedName)
}

// HashMethod derives a FunctionId from (owner type, method name, parameter
// type hashes, const-qualification). owner may be the zero TypeHash for
// free functions. is_const is folded in because duplicate-function
// detection keys on (owner, name, params, is_const): two overloads that
// differ only by const-qualification must not collide.
func HashMethod(owner TypeHash, name string, paramHashes []TypeHash, isConst bool) TypeHash {
	parts := make([]string, 0, len(paramHashes)+3)
	parts = append(parts, "method", strconv.FormatUint(uint64(owner), 16), name)
	for _, p := range paramHashes {
		parts = append(parts, strconv.FormatUint(uint64(p), 16))
	}
	if isConst {
		parts = append(parts, "const")
	}
	return sum(parts...)
}

// HashSlot derives a vtable/itable signature hash from (method name,
// parameter signature hashes, const-qualification).
func HashSlot(name string, paramHashes []TypeHash, isConst bool) TypeHash {
	parts := make([]string, 0, len(paramHashes)+2)
	parts = append(parts, "slot", name)
	for _, p := range paramHashes {
		parts = append(parts, strconv.FormatUint(uint64(p), 16))
	}
	if isConst {
		parts = append(parts, "const")
	}
	return sum(parts...)
}
