// Package trace reads, writes, generates and replays allocation traces.
//
// A trace file has four header lines followed by one operation per line:
//
//	<suggested heap size>
//	<number of ids>
//	<number of ops>
//	<weight>
//	a <id> <size>    allocate size bytes for id
//	r <id> <size>    resize id's block to size bytes
//	f <id>           free id's block
//
// Replay runs a trace against a fresh allocator and checks every result: the
// payload is aligned, it does not overlap any other live payload, and the
// bytes written into it survive until it is freed, including across resizes.
package trace
