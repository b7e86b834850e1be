// Package io provides JSON import and export for page documents.
//
// # JSON Format
//
// A page is an object with an id and its top-level components:
//
//	{
//	  "id": "landing",
//	  "components": [
//	    {"id": "hero", "type": "Section", "children": [
//	      {"id": "title", "type": "Text", "text": "Welcome"}
//	    ]}
//	  ]
//	}
//
// Components use the flat node encoding of the tree package: "id" and
// "type" are structural, the presence of "children" makes a node a
// container, and every other key is an attribute. A bare JSON array of
// components is accepted as a page without an id.
//
// # Import
//
// Use [ImportJSON] to read a page from a file path, or [ReadJSON] to read
// from any io.Reader. Both normalize legacy trees (container types stored
// without "children") and validate the result: unique non-empty ids, known
// types, bounded depth. Errors carry errors.ErrCodeInvalidTree.
//
// # Export
//
// Use [ExportJSON] to write a page to a file, or [WriteJSON] to write to any
// io.Writer. Export followed by import yields an identical tree.
package io
