// Package textkv extracts values from the flat key/value text produced by
// device serialization.
//
// The format is a single object of the shape
//
//	{"type":"TALON_SRX","id":3,"speed":0.250000,"inverted":false}
//
// and the helpers here understand exactly that shape: a key token, a colon and
// a value that runs to the next top-level comma or closing brace. Quoted values
// may contain commas and braces. Nested objects and arrays are not supported.
package textkv
