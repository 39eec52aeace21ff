// Package worker implements the mailroom worker and its assembler.
//
// The worker has a single-value hold, a sparse floor of numbered tiles, an
// inbox and an outbox conveyor, and an instruction pointer. Floor operands
// may be direct (the tile number) or indirect (a tile holding the tile
// number, written as [n]).
//
// The assembler accepts one instruction or label per line:
//
//	loop:
//	    inbox
//	    copyto   0
//	    add      [ptr]
//	    jumpz    loop
//
// Operands are decimal tile numbers or names from an alias table.
package worker
