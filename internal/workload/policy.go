package workload

import "math/rand/v2"

// Policy decides what each loop iteration does. It carries no mutable
// state; all randomness comes from the caller's rng.
type Policy struct {
	Kind Kind
	Gen  Generator
}

func NewPolicy(kind Kind, gen Generator) Policy {
	return Policy{Kind: kind, Gen: gen}
}

func (p Policy) Next(rng *rand.Rand) Request {
	switch p.Kind {
	case PutAll:
		return p.create(rng)
	case GetAll:
		return Request{Op: Read, Key: p.Gen.NextKey(rng)}
	case PopularGet:
		return Request{Op: Read, Key: p.Gen.NextHotKey(rng)}
	default:
		switch Operation(rng.IntN(NumOperations)) {
		case Create:
			return p.create(rng)
		case Read:
			return Request{Op: Read, Key: p.Gen.NextKey(rng)}
		default:
			return Request{Op: Delete, Key: p.Gen.NextKey(rng)}
		}
	}
}

func (p Policy) create(rng *rand.Rand) Request {
	return Request{
		Op:    Create,
		Key:   p.Gen.NextKey(rng),
		Value: p.Gen.NextValue(rng, p.Gen.ValueLen),
	}
}
