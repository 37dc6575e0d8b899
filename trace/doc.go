// Package trace records encoded packets into compact, compressed captures.
//
// A device model adds every packet it sends or receives to a Writer, together
// with the schema used to encode it. Finish produces a self-describing blob:
//
//	+--------------------+----------------------------------------------+
//	| Header (16/24 B)   | compressed payload                           |
//	+--------------------+----------------------------------------------+
//
// The uncompressed payload is a sequence of entries, each an EntryHeader
// (schema fingerprint, payload length, direction, channel) followed by the
// packet bytes. The header records the codec, the entry count, both payload
// lengths and, optionally, an xxhash64 checksum of the raw payload.
//
// Reading:
//
//	r, err := trace.NewReader(blob)
//	if err != nil {
//	    return err
//	}
//	for _, e := range r.All() {
//	    if st, ok := r.Resolve(e); ok {
//	        rec, _, _ := st.DecodeAny(e.Payload, 0)
//	        fmt.Println(st.Name(), e.Direction, rec)
//	    }
//	}
//
// Both headers are themselves described by packet schemas.
package trace
