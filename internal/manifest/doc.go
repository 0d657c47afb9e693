// Package manifest describes temporary trees in YAML and builds them.
//
// Example:
//
//	base_dir: ./scratch        # optional, defaults to a private temp directory
//	name: fixture-{dddd}
//	children:
//	  - name: src
//	    children:
//	      - name: main
//	        ext: go
//	        data: "package main"
//	  - name: empty
//	    dir: true
//	  - name: blob
//	    data: "aGVsbG8="
//	    encoding: base64
//	    mode: "0600"
//
// A node is a directory when it has children or sets dir: true; otherwise it
// is a file. Children are built as standalone temporary entries first and
// then moved into their parent, bottom up.
package manifest
