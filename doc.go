// Package gmxtop reads a GROMACS-style molecular topology file — a primary
// file plus whatever it transitively #includes — and instantiates it into a
// flat, globally-indexed atom and connectivity table.
//
// A Handle is produced once by Open and its tables are not modified
// afterwards: every read method only reads tables that were already built
// during Open. There is no process-global parser state; an embedding
// program can hold as many independent Handles open as it likes, though a
// single Handle is not safe for concurrent use without external locking.
package gmxtop
