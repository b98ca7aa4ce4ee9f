package catalog

import (
	"encoding/binary"

	"github.com/rzbill/interticle/pkg/snowflake"
)

var (
	articlePrefix = []byte("article/")
	authorPrefix  = []byte("author/")
)

func appendBE8(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

func idKey(prefix []byte, id snowflake.ID) []byte {
	k := make([]byte, 0, len(prefix)+8)
	k = append(k, prefix...)
	return appendBE8(k, id.Uint64())
}

// KeyArticle builds the article key.
func KeyArticle(id snowflake.ID) []byte { return idKey(articlePrefix, id) }

// KeyAuthor builds the author key.
func KeyAuthor(id snowflake.ID) []byte { return idKey(authorPrefix, id) }

// idFromKey returns the id encoded in the last 8 bytes of k.
func idFromKey(k []byte) snowflake.ID {
	return snowflake.FromUint64(binary.BigEndian.Uint64(k[len(k)-8:]))
}

// prefixUpperBound returns the smallest key greater than every key with prefix p.
func prefixUpperBound(p []byte) []byte {
	end := append([]byte(nil), p...)
	end[len(end)-1]++
	return end
}
