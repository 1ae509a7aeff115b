package parser

import (
	"encoding/binary"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
)

// idGen produces block ids. Synthesized ids are xxh3 hashes of a counter
// seeded by the markup itself, so the same markup always yields the same
// ids. Ids taken from markup are kept on first use.
type idGen struct {
	seed    uint64
	counter uint64
	used    map[string]struct{}
	user    map[string]struct{}
}

func newIDGen(markup string) *idGen {
	return &idGen{
		seed: xxh3.HashString(markup),
		used: make(map[string]struct{}),
		user: make(map[string]struct{}),
	}
}

func (g *idGen) next() string {
	var buf [8]byte
	for {
		g.counter++
		binary.BigEndian.PutUint64(buf[:], g.counter)
		h := xxh3.Hash128Seed(buf[:], g.seed)

		var u uuid.UUID
		binary.BigEndian.PutUint64(u[:8], h.Hi)
		binary.BigEndian.PutUint64(u[8:], h.Lo)
		u[6] = (u[6] & 0x0f) | 0x80 // version 8, vendor specific
		u[8] = (u[8] & 0x3f) | 0x80 // RFC 4122 variant

		id := u.String()
		if _, dup := g.used[id]; !dup {
			g.used[id] = struct{}{}
			return id
		}
	}
}

// fromMarkup returns id supplied in markup when it was not seen before,
// otherwise a synthesized one.
func (g *idGen) fromMarkup(id string) string {
	if id == "" {
		return g.next()
	}
	if _, dup := g.used[id]; dup {
		return g.next()
	}
	g.used[id] = struct{}{}
	g.user[id] = struct{}{}
	return id
}

// isUser reports whether block id came from markup.
func (g *idGen) isUser(id string) bool {
	_, ok := g.user[id]
	return ok
}
