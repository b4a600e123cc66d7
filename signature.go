package silo

import "strings"

// Signature is the bit pattern of component kinds an entity carries.
// It is an immutable value type; With and Without return new
// signatures. Two signatures compare equal iff their bit patterns
// match, which makes Signature usable as a map key.
type Signature uint16

// EmptySignature is the signature of an entity that carries only the
// mandatory position, orientation and name.
const EmptySignature Signature = 0

func (s Signature) Contains(kind Kind) bool {
	return s&Signature(kind.bit()) != 0
}

func (s Signature) With(kind Kind) Signature {
	return s | Signature(kind.bit())
}

func (s Signature) Without(kind Kind) Signature {
	return s &^ Signature(kind.bit())
}

func (s Signature) String() string {
	if s == EmptySignature {
		return "signature()"
	}

	var value strings.Builder
	value.WriteString("signature(")

	first := true
	for kind := Kind(0); kind < numKinds; kind++ {
		if !s.Contains(kind) {
			continue
		}

		if !first {
			value.WriteString(", ")
		}

		value.WriteString(kind.String())
		first = false
	}

	value.WriteString(")")
	return value.String()
}
