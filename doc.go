// Package ivory implements an embedded, file-backed columnar record store.
//
// A Store holds a named set of typed columns ("attributes"), each an ordered
// sequence of cell values, and persists the whole store to a single .ivry
// file in one shot. Snapshots are self-describing: a versioned binary header
// records the codec, compression and a checksum, so a file written today
// stays readable across releases.
//
// # Quick start
//
//	db := ivory.New()
//	db.AddAttribute("name")
//	db.AddAttribute("age")
//	_ = db.AppendRow(value.String("ada"), value.Int(36))
//
//	if err := db.SetLocation("./data/people.ivry"); err != nil { ... }
//	if err := db.Save(); err != nil { ... }
//
//	db2, err := ivory.Open("./data/people.ivry")
//
// Saving without a location first assigns the default one: an auto-created
// ivory-databases directory under the working directory. Locations never
// silently reuse an existing file; name collisions resolve to the first free
// numbered variant (people(1).ivry, people(2).ivry, ...).
//
// A Store is not safe for concurrent use. Multi-process access to the same
// .ivry file needs external locking; the store itself assumes exclusive,
// sequential access.
package ivory
