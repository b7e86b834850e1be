// Package script replays recorded drag gestures against a page.
//
// A script is a YAML document with a list of steps. Each step sets exactly
// one key:
//
//	page: home
//	steps:
//	  - start: {from: palette, type: Button}
//	  - move:
//	      activator: {x: 10, y: 10}
//	      delta: {x: 40, y: 90}
//	      over: {id: container-hero, rect: {left: 0, top: 0, width: 800, height: 400}}
//	  - end:
//	      over: {id: container-hero}
//	  - insert: {type: Text, selection: [hero]}
//	  - reorder: {id: hero, dir: down}
//	  - undo: true
//
// Step kinds are start, move, tab, end, cancel, insert, reorder, undo and
// redo. Library payloads carry their templates inline as node objects:
//
//	steps:
//	  - start:
//	      from: library
//	      templates:
//	        - {id: tpl, type: Section, children: [{id: t, type: Text}]}
//
// [Run] drives a [dnd.Controller] against an [editor.Document] and records
// what every step produced in a [Transcript].
package script
