// Package record defines the article and author records exchanged between
// Interticle servers and their JSON form.
//
// Ids travel as decimal strings because JSON numbers cannot carry the full
// 64-bit range. Typed records get this from snowflake.ID's JSON methods;
// untyped payloads go through EncodePayload/DecodePayload, which rewrite the
// reserved id fields by name.
package record
