package store

import "bytes"

// Key layout. Every key starts with the owner scope, so a prefix iterator
// can never leave one owner's data:
//
//	owner:{ownerID}:book:{bookID}                       -> book document
//	owner:{ownerID}:idx:title:{title}\x00{bookID}       -> bookID
//	owner:{ownerID}:idx:search:{searchText}\x00{bookID} -> bookID
//	owner:{ownerID}:profile                             -> profile document
//
// Index keys embed the ordered value followed by the document id, giving
// every index entry a (value, id) total order for keyset pagination.
const (
	ownerPrefix      = "owner:"
	bookSegment      = ":book:"
	titleIdxSegment  = ":idx:title:"
	searchIdxSegment = ":idx:search:"
	profileSegment   = ":profile"

	// idxSeparator splits the ordered value from the tie-break id inside an
	// index key. NUL sorts before every other byte, so "foo\x00id" orders
	// directly after any shorter value and before "foo1\x00id".
	idxSeparator = byte(0x00)
)

func bookKey(ownerID, bookID string) []byte {
	return []byte(ownerPrefix + ownerID + bookSegment + bookID)
}

func bookKeyPrefix(ownerID string) []byte {
	return []byte(ownerPrefix + ownerID + bookSegment)
}

func titleIndexPrefix(ownerID string) []byte {
	return []byte(ownerPrefix + ownerID + titleIdxSegment)
}

func searchIndexPrefix(ownerID string) []byte {
	return []byte(ownerPrefix + ownerID + searchIdxSegment)
}

func profileKey(ownerID string) []byte {
	return []byte(ownerPrefix + ownerID + profileSegment)
}

// indexEntryKey builds "{prefix}{value}\x00{id}".
func indexEntryKey(prefix []byte, value, id string) []byte {
	key := make([]byte, 0, len(prefix)+len(value)+1+len(id))
	key = append(key, prefix...)
	key = append(key, value...)
	key = append(key, idxSeparator)
	key = append(key, id...)
	return key
}

// splitIndexEntry extracts (value, id) from an index key. The id never
// contains NUL, so the last separator byte is the split point.
func splitIndexEntry(key, prefix []byte) (value, id string, ok bool) {
	if !bytes.HasPrefix(key, prefix) {
		return "", "", false
	}
	rest := key[len(prefix):]
	sep := bytes.LastIndexByte(rest, idxSeparator)
	if sep < 0 {
		return "", "", false
	}
	return string(rest[:sep]), string(rest[sep+1:]), true
}
